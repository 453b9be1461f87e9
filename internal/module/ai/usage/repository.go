package usage

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartblog/server/internal/module/account"
	"gorm.io/gorm"
)

// Repository defines the interface for usage data access.
type Repository interface {
	// RecordEvent inserts the event and bumps the owner's usage counter
	// in one transaction. Both land or neither does.
	RecordEvent(ctx context.Context, event *Event) error
	CountByKind(ctx context.Context, userID uuid.UUID, kind Kind) (int64, error)
	TotalUsage(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new usage repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RecordEvent(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		// Storage-level increment so concurrent calls never lose updates.
		return tx.Model(&account.User{}).
			Where("id = ?", event.UserID).
			UpdateColumn("ai_usage_count", gorm.Expr("ai_usage_count + 1")).Error
	})
}

func (r *repository) CountByKind(ctx context.Context, userID uuid.UUID, kind Kind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Event{}).
		Where("user_id = ? AND feature_kind = ?", userID, kind).
		Count(&count).Error
	return count, err
}

func (r *repository) TotalUsage(ctx context.Context, userID uuid.UUID) (int64, error) {
	var user account.User
	err := r.db.WithContext(ctx).
		Select("ai_usage_count").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return 0, err
	}
	return int64(user.AIUsageCount), nil
}
