package blog

import "errors"

// Module errors.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("not the author")
	ErrInvalidCategory = errors.New("invalid category")
)
