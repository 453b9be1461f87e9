package usage

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies which AI feature produced a usage event.
type Kind string

const (
	KindTitleSuggest Kind = "title_suggest"
	KindAutocomplete Kind = "autocomplete"
	KindTagSuggest   Kind = "tag_suggest"
	KindSummary      Kind = "summary"
)

// IsValid checks if the kind is a known feature kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindTitleSuggest, KindAutocomplete, KindTagSuggest, KindSummary:
		return true
	default:
		return false
	}
}

// Event is one immutable usage record, created exactly once per AI
// result returned to a caller. Never updated or deleted.
type Event struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	FeatureKind  Kind      `json:"feature_kind" gorm:"size:20;not null;index"`
	ApproxTokens int       `json:"approx_tokens" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Event) TableName() string {
	return "ai_usage_logs"
}

// Stats aggregates one user's AI usage.
type Stats struct {
	TotalUsage       int64 `json:"total_usage"`
	TitleSuggestions int64 `json:"title_suggestions"`
	Autocompletions  int64 `json:"autocompletions"`
	TagSuggestions   int64 `json:"tag_suggestions"`
	Summaries        int64 `json:"summaries"`
}
