package repository

import (
	"context"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RankUpdate carries a freshly assigned rank for one existing score row.
type RankUpdate struct {
	ID   uuid.UUID
	Rank int
}

type LeaderboardRepository interface {
	// UpsertScores writes score rows on the composite (user, type, tech,
	// domain) key. Only the score is updated on conflict; ranks are written
	// by UpdateRanks after the partition has been re-read.
	UpsertScores(ctx context.Context, rows []model.LeaderboardScore) error

	// Partitions lists every distinct leaderboard partition present.
	Partitions(ctx context.Context) ([]model.Partition, error)

	// FindByPartition loads a partition's rows joined against eligible,
	// onboarded users, best score first.
	FindByPartition(ctx context.Context, p model.Partition) ([]model.LeaderboardScore, error)

	// UpdateRanks persists a partition's new ranks in one transaction so a
	// partially ranked partition is never visible.
	UpdateRanks(ctx context.Context, updates []RankUpdate) error

	// Page returns a leaderboard page for the read API, users preloaded.
	Page(ctx context.Context, p model.Partition, limit int) ([]model.LeaderboardScore, error)

	// FindByUser returns a user's rows across all partitions.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.LeaderboardScore, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) UpsertScores(ctx context.Context, rows []model.LeaderboardScore) error {
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "leaderboard_type"},
			{Name: "tech_stack"},
			{Name: "domain"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("excluded.score"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).CreateInBatches(&rows, 500).Error
}

func (r *leaderboardRepository) Partitions(ctx context.Context) ([]model.Partition, error) {
	type row struct {
		LeaderboardType model.LeaderboardType
		TechStack       string
		Domain          string
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.LeaderboardScore{}).
		Distinct("leaderboard_type", "tech_stack", "domain").
		Order("leaderboard_type, tech_stack, domain").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	partitions := make([]model.Partition, 0, len(rows))
	for _, r := range rows {
		partitions = append(partitions, model.Partition{
			Type:      r.LeaderboardType,
			TechStack: r.TechStack,
			Domain:    r.Domain,
		})
	}
	return partitions, nil
}

func (r *leaderboardRepository) FindByPartition(ctx context.Context, p model.Partition) ([]model.LeaderboardScore, error) {
	var rows []model.LeaderboardScore
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = leaderboard_scores.user_id").
		Where("users.onboarded = ? AND users.username <> ''", true).
		Where("leaderboard_scores.leaderboard_type = ? AND leaderboard_scores.tech_stack = ? AND leaderboard_scores.domain = ?",
			p.Type, p.TechStack, p.Domain).
		Order("leaderboard_scores.score DESC, leaderboard_scores.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *leaderboardRepository) UpdateRanks(ctx context.Context, updates []RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := tx.Model(&model.LeaderboardScore{}).
				Where("id = ?", u.ID).
				Update("rank", u.Rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *leaderboardRepository) Page(ctx context.Context, p model.Partition, limit int) ([]model.LeaderboardScore, error) {
	var rows []model.LeaderboardScore
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = leaderboard_scores.user_id").
		Where("users.onboarded = ? AND users.username <> ''", true).
		Where("leaderboard_scores.leaderboard_type = ? AND leaderboard_scores.tech_stack = ? AND leaderboard_scores.domain = ?",
			p.Type, p.TechStack, p.Domain).
		Where("leaderboard_scores.rank > 0").
		Order("leaderboard_scores.rank ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *leaderboardRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.LeaderboardScore, error) {
	var rows []model.LeaderboardScore
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("leaderboard_type, tech_stack, domain").
		Find(&rows).Error
	return rows, err
}
