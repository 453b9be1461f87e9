package account

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Bio          string    `json:"bio" gorm:"size:500"`

	// Incremented once per successful AI assistant call, including
	// fallback-served ones. Mutated only through the usage recorder.
	AIUsageCount int `json:"ai_usage_count" gorm:"column:ai_usage_count;not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// Follow represents a follower/following edge between two users.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Follow) TableName() string {
	return "follows"
}

// Profile represents a user profile for display.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    bool      `json:"is_following"`
	AIUsageCount   int       `json:"ai_usage_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToProfile converts a User to a Profile with the given counts.
func (u *User) ToProfile(followers, following int64, isFollowing bool) *Profile {
	return &Profile{
		ID:             u.ID,
		Username:       u.Username,
		Bio:            u.Bio,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
		AIUsageCount:   u.AIUsageCount,
		CreatedAt:      u.CreatedAt,
	}
}
