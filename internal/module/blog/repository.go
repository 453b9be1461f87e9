package blog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for blog data access.
type Repository interface {
	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, filter *PostFilter) ([]*Post, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Tags
	GetOrCreateTags(ctx context.Context, names []string) ([]*Tag, error)
	ReplacePostTags(ctx context.Context, post *Post, tags []*Tag) error

	// Comments
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error

	// Likes
	CreateLike(ctx context.Context, like *Like) error
	DeleteLike(ctx context.Context, userID, postID uuid.UUID) error
	GetLike(ctx context.Context, userID, postID uuid.UUID) (*Like, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new blog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// --- Posts ---

func (r *repository) CreatePost(ctx context.Context, post *Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	var post Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *repository) UpdatePost(ctx context.Context, post *Post) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(post).Error
}

func (r *repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(&Post{ID: id}).Error
}

func (r *repository) ListPosts(ctx context.Context, filter *PostFilter) ([]*Post, int64, error) {
	var posts []*Post
	var total int64

	query := r.db.WithContext(ctx).Model(&Post{})

	if filter != nil {
		if filter.Category != nil {
			query = query.Where("category = ?", *filter.Category)
		}
		if filter.AuthorID != nil {
			query = query.Where("author_id = ?", *filter.AuthorID)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if err := query.Preload("Tags").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// IncrementViews bumps the view counter at the storage layer so concurrent
// reads never lose updates.
func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// --- Tags ---

func (r *repository) GetOrCreateTags(ctx context.Context, names []string) ([]*Tag, error) {
	tags := make([]*Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag Tag
		err := r.db.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&tag, Tag{Name: name}).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}

func (r *repository) ReplacePostTags(ctx context.Context, post *Post, tags []*Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
}

// --- Comments ---

func (r *repository) CreateComment(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) GetComment(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var comment Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	var comments []*Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Comment{}, "id = ?", id).Error
}

// --- Likes ---

func (r *repository) CreateLike(ctx context.Context, like *Like) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
}

func (r *repository) DeleteLike(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&Like{}).Error
}

func (r *repository) GetLike(ctx context.Context, userID, postID uuid.UUID) (*Like, error) {
	var like Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *repository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
