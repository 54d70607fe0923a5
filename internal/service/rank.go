package service

import (
	"sort"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/repository"
	"github.com/google/uuid"
)

// RankChange records one user's rank movement inside a partition between two
// recompute cycles. PrevRank 0 means the user appeared for the first time.
type RankChange struct {
	UserID    uuid.UUID
	Partition model.Partition
	PrevRank  int
	NewRank   int
	Score     int
}

// AssignRanks takes one partition's rows, captures their previously stored
// ranks, and assigns contiguous 1-based ranks by score descending. The incoming
// order breaks ties, so the stable sort keeps the repository's ordering for
// equal scores. Every row gets an update (ranks are rewritten each run);
// changes are reported only where the rank actually moved.
func AssignRanks(rows []model.LeaderboardScore) ([]repository.RankUpdate, []RankChange) {
	sorted := make([]model.LeaderboardScore, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	updates := make([]repository.RankUpdate, 0, len(sorted))
	var changes []RankChange

	for i, row := range sorted {
		newRank := i + 1
		updates = append(updates, repository.RankUpdate{ID: row.ID, Rank: newRank})

		if row.Rank != newRank {
			changes = append(changes, RankChange{
				UserID:    row.UserID,
				Partition: row.PartitionKey(),
				PrevRank:  row.Rank,
				NewRank:   newRank,
				Score:     row.Score,
			})
		}
	}

	return updates, changes
}
