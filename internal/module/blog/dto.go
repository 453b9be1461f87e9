package blog

import "github.com/google/uuid"

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Content       string   `json:"content" binding:"required"`
	Summary       string   `json:"summary"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	SuggestedTags []string `json:"suggested_tags"`
	IsAIAssisted  bool     `json:"is_ai_assisted"`
}

// UpdatePostRequest represents a post update request.
type UpdatePostRequest struct {
	Title         *string  `json:"title,omitempty"`
	Content       *string  `json:"content,omitempty"`
	Summary       *string  `json:"summary,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	SuggestedTags []string `json:"suggested_tags,omitempty"`
	IsAIAssisted  *bool    `json:"is_ai_assisted,omitempty"`
}

// PostFilter represents post query filters.
type PostFilter struct {
	Category *Category
	AuthorID *uuid.UUID
	Search   string
	Page     int
	PageSize int
}

// Offset returns the query offset for the filter's page.
func (f *PostFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the page size, bounded to a sane default.
func (f *PostFilter) Limit() int {
	if f.PageSize < 1 || f.PageSize > 100 {
		return 20
	}
	return f.PageSize
}

// CreateCommentRequest represents a comment creation request.
type CreateCommentRequest struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// LikeResponse represents the result of a like toggle.
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
