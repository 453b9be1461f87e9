package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Category represents a post category.
type Category string

const (
	CategoryTech   Category = "tech"
	CategoryLife   Category = "life"
	CategoryReview Category = "review"
	CategoryEtc    Category = "etc"
)

// IsValid checks if the category is a valid post category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTech, CategoryLife, CategoryReview, CategoryEtc:
		return true
	default:
		return false
	}
}

// Post represents a blog post.
type Post struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title    string    `json:"title" gorm:"size:200;not null"`
	Content  string    `json:"content" gorm:"not null"`
	Summary  string    `json:"summary"` // AI generated
	Category Category  `json:"category" gorm:"default:etc"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`

	Tags []*Tag `json:"tags,omitempty" gorm:"many2many:post_tags;"`

	// Last AI tag suggestion the author accepted into the editor,
	// kept separate from the curated Tags relation.
	SuggestedTags pq.StringArray `json:"suggested_tags,omitempty" gorm:"type:text[]"`

	Views        int64 `json:"views" gorm:"not null;default:0"`
	IsAIAssisted bool  `json:"is_ai_assisted" gorm:"column:is_ai_assisted;not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Post) TableName() string {
	return "posts"
}

// Tag represents a post tag.
type Tag struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
}

// TableName returns the database table name.
func (Tag) TableName() string {
	return "tags"
}

// Comment represents a comment on a post, optionally replying to another.
type Comment struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostID   uuid.UUID  `json:"post_id" gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID  `json:"author_id" gorm:"type:uuid;not null"`
	ParentID *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid"`
	Content  string     `json:"content" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Comment) TableName() string {
	return "comments"
}

// Like represents a user liking a post. One like per user per post.
type Like struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair"`
	PostID uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Like) TableName() string {
	return "likes"
}
