package repository

import (
	"context"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	// FindByUserIDs bulk-loads every showcased item for the given users in
	// one query so the recompute avoids N+1 access.
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]model.ShowcasedItem, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]model.ShowcasedItem, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var items []model.ShowcasedItem
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}
