package blog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartblog/server/internal/shared/logger"
)

// Service provides blog operations.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new blog service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CreatePost creates a post for the given author.
func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, req *CreatePostRequest) (*Post, error) {
	category := CategoryEtc
	if req.Category != "" {
		category = Category(req.Category)
		if !category.IsValid() {
			return nil, ErrInvalidCategory
		}
	}

	post := &Post{
		Title:         req.Title,
		Content:       req.Content,
		Summary:       req.Summary,
		Category:      category,
		AuthorID:      authorID,
		SuggestedTags: req.SuggestedTags,
		IsAIAssisted:  req.IsAIAssisted,
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if len(req.Tags) > 0 {
		tags, err := s.repo.GetOrCreateTags(ctx, req.Tags)
		if err != nil {
			return nil, fmt.Errorf("create tags: %w", err)
		}
		if err := s.repo.ReplacePostTags(ctx, post, tags); err != nil {
			return nil, fmt.Errorf("attach tags: %w", err)
		}
		post.Tags = tags
	}

	s.logger.Info("post created",
		"post_id", post.ID,
		"author_id", authorID,
		"ai_assisted", post.IsAIAssisted,
	)
	return post, nil
}

// GetPost returns a post and bumps its view counter.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		// A lost view count is not worth failing the read
		s.logger.Warn("increment views failed", "post_id", id, logger.Err(err))
	} else {
		post.Views++
	}

	return post, nil
}

// UpdatePost updates a post. Only the author may update.
func (s *Service) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req *UpdatePostRequest) (*Post, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Summary != nil {
		post.Summary = *req.Summary
	}
	if req.Category != nil {
		category := Category(*req.Category)
		if !category.IsValid() {
			return nil, ErrInvalidCategory
		}
		post.Category = category
	}
	if req.SuggestedTags != nil {
		post.SuggestedTags = req.SuggestedTags
	}
	if req.IsAIAssisted != nil {
		post.IsAIAssisted = *req.IsAIAssisted
	}

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if req.Tags != nil {
		tags, err := s.repo.GetOrCreateTags(ctx, req.Tags)
		if err != nil {
			return nil, fmt.Errorf("create tags: %w", err)
		}
		if err := s.repo.ReplacePostTags(ctx, post, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
		post.Tags = tags
	}

	return post, nil
}

// DeletePost deletes a post. Only the author may delete.
func (s *Service) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.DeletePost(ctx, postID)
}

// ListPosts lists posts matching the filter, newest first.
func (s *Service) ListPosts(ctx context.Context, filter *PostFilter) ([]*Post, int64, error) {
	return s.repo.ListPosts(ctx, filter)
}

// ToggleLike likes the post when not yet liked, removes the like otherwise.
func (s *Service) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*LikeResponse, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLike(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}

	liked := false
	if existing != nil {
		if err := s.repo.DeleteLike(ctx, userID, postID); err != nil {
			return nil, fmt.Errorf("delete like: %w", err)
		}
	} else {
		if err := s.repo.CreateLike(ctx, &Like{UserID: userID, PostID: postID}); err != nil {
			return nil, fmt.Errorf("create like: %w", err)
		}
		liked = true
	}

	count, err := s.repo.CountLikes(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	return &LikeResponse{Liked: liked, LikeCount: count}, nil
}

// AddComment adds a comment to a post, optionally as a reply.
func (s *Service) AddComment(ctx context.Context, userID, postID uuid.UUID, req *CreateCommentRequest) (*Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetComment(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrCommentNotFound
		}
	}

	comment := &Comment{
		PostID:   postID,
		AuthorID: userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListComments lists a post's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	return s.repo.ListComments(ctx, postID)
}

// DeleteComment deletes a comment. Only the author may delete.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.DeleteComment(ctx, commentID)
}
