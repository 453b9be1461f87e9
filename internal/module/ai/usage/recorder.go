package usage

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists usage events and answers stats queries.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
}

// NewRecorder creates a new usage recorder.
func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Record writes one usage event for the user. A failed write is
// reported to the caller so no result is handed out unaccounted.
func (r *Recorder) Record(ctx context.Context, userID uuid.UUID, kind Kind, approxTokens int) error {
	event := &Event{
		UserID:       userID,
		FeatureKind:  kind,
		ApproxTokens: approxTokens,
	}

	if err := r.repo.RecordEvent(ctx, event); err != nil {
		r.logger.Error("usage record failed",
			zap.String("user_id", userID.String()),
			zap.String("feature", string(kind)),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("ai usage recorded",
		zap.String("user_id", userID.String()),
		zap.String("feature", string(kind)),
		zap.Int("approx_tokens", approxTokens),
	)
	return nil
}

// Stats returns the user's aggregate usage. Reads only, so two calls
// with no interleaved AI activity return identical counts.
func (r *Recorder) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	total, err := r.repo.TotalUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalUsage: total}
	for kind, target := range map[Kind]*int64{
		KindTitleSuggest: &stats.TitleSuggestions,
		KindAutocomplete: &stats.Autocompletions,
		KindTagSuggest:   &stats.TagSuggestions,
		KindSummary:      &stats.Summaries,
	} {
		count, err := r.repo.CountByKind(ctx, userID, kind)
		if err != nil {
			return nil, err
		}
		*target = count
	}

	return stats, nil
}
