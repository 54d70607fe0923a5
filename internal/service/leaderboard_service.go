package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ajstars1/0unveiled-leaderboard/internal/dto"
	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/repository"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	runLockTTL      = 10 * time.Minute
	pageCacheTTL    = 2 * time.Minute
	pageCachePrefix = "cache:leaderboard:"
	searchPageSize  = 500
)

type LeaderboardService interface {
	// RecomputeAll runs the full pipeline: bulk load, score, aggregate,
	// rank every partition, notify rank changes.
	RecomputeAll(ctx context.Context) error

	GetLeaderboard(ctx context.Context, p model.Partition, limit int) ([]dto.LeaderboardEntry, error)
	GetUserRanks(ctx context.Context, userID uuid.UUID) (*dto.UserRanks, error)
}

type leaderboardService struct {
	repo        repository.LeaderboardRepository
	userRepo    repository.UserRepository
	itemRepo    repository.ItemRepository
	dispatcher  *Dispatcher
	search      SearchService
	redisClient *redis.Client

	// injectable for tests
	acquireLock func(ctx context.Context) (bool, error)
	releaseLock func(ctx context.Context) error
}

func NewLeaderboardService(
	repo repository.LeaderboardRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	dispatcher *Dispatcher,
	search SearchService,
	redisClient *redis.Client,
) LeaderboardService {
	s := &leaderboardService{
		repo:        repo,
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		dispatcher:  dispatcher,
		search:      search,
		redisClient: redisClient,
	}
	s.acquireLock = func(ctx context.Context) (bool, error) {
		return AcquireRunLock(ctx, redisClient, runLockTTL)
	}
	s.releaseLock = func(ctx context.Context) error {
		return ReleaseRunLock(ctx, redisClient)
	}
	return s
}

func (s *leaderboardService) RecomputeAll(ctx context.Context) error {
	acquired, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return apperror.ErrRunInProgress
	}
	defer func() {
		if err := s.releaseLock(ctx); err != nil {
			log.Printf("failed to release recompute lock: %v", err)
		}
	}()

	started := time.Now()

	users, err := s.userRepo.FindEligible(ctx)
	if err != nil {
		return fmt.Errorf("load eligible users: %w", err)
	}
	if len(users) == 0 {
		log.Println("leaderboard recompute: no eligible users")
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	items, err := s.itemRepo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("load showcased items: %w", err)
	}

	rows, generalScores := AggregateScores(users, items)
	if err := s.repo.UpsertScores(ctx, rows); err != nil {
		return fmt.Errorf("upsert scores: %w", err)
	}

	partitions, err := s.repo.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}

	var generalChanges []RankChange
	for _, p := range partitions {
		partitionRows, err := s.repo.FindByPartition(ctx, p)
		if err != nil {
			// One failed partition does not abort the siblings.
			log.Printf("partition %v: load failed: %v", p, err)
			continue
		}

		updates, changes := AssignRanks(partitionRows)
		if err := s.repo.UpdateRanks(ctx, updates); err != nil {
			log.Printf("partition %v: rank update failed: %v", p, err)
			continue
		}

		if p.Type == model.TypeGeneral {
			generalChanges = changes
		}
	}

	s.dispatcher.Dispatch(ctx, generalChanges, generalScores)

	s.invalidatePageCache(ctx)
	s.reindexSearch(ctx)

	log.Printf("✅ leaderboard recompute finished: %d users, %d rows, %d rank changes in %s",
		len(generalScores), len(rows), len(generalChanges), time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, p model.Partition, limit int) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("%s%s:%s:%s:%d", pageCachePrefix, p.Type, p.TechStack, p.Domain, limit)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var entries []dto.LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		}
	}

	rows, err := s.repo.Page(ctx, p, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := dto.LeaderboardEntry{
			UserID: row.UserID.String(),
			Score:  row.Score,
			Rank:   row.Rank,
		}
		if row.User != nil {
			entry.Username = row.User.Username
			entry.AvatarURL = row.User.AvatarURL
			entry.Headline = row.User.Headline
		}
		entries = append(entries, entry)
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(entries); err == nil {
			s.redisClient.Set(ctx, cacheKey, payload, pageCacheTTL)
		}
	}

	return entries, nil
}

func (s *leaderboardService) GetUserRanks(ctx context.Context, userID uuid.UUID) (*dto.UserRanks, error) {
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranks := &dto.UserRanks{}
	for _, row := range rows {
		scored := dto.RankedScore{Score: row.Score, Rank: row.Rank}
		switch row.LeaderboardType {
		case model.TypeGeneral:
			scored.Partition = string(model.TypeGeneral)
			general := scored
			ranks.General = &general
		case model.TypeTechStack:
			scored.Partition = row.TechStack
			ranks.TechStack = append(ranks.TechStack, scored)
		case model.TypeDomain:
			scored.Partition = row.Domain
			ranks.Domain = append(ranks.Domain, scored)
		}
	}

	return ranks, nil
}

// invalidatePageCache drops every cached leaderboard page after a recompute.
func (s *leaderboardService) invalidatePageCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	iter := s.redisClient.Scan(ctx, 0, pageCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("leaderboard cache scan failed: %v", err)
		return
	}
	if len(keys) > 0 {
		s.redisClient.Del(ctx, keys...)
	}
}

// reindexSearch refreshes the search index with the GENERAL leaderboard.
func (s *leaderboardService) reindexSearch(ctx context.Context) {
	if s.search == nil {
		return
	}

	entries, err := s.GetLeaderboard(ctx, model.GeneralPartition(), searchPageSize)
	if err != nil {
		log.Printf("search reindex: load general leaderboard failed: %v", err)
		return
	}
	if err := s.search.IndexLeaderboard(entries); err != nil {
		log.Printf("search reindex failed: %v", err)
	}
}
