package service_test

import (
	"testing"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/service"
	"github.com/google/uuid"
)

func scoreRow(score, rank int) model.LeaderboardScore {
	return model.LeaderboardScore{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		LeaderboardType: model.TypeGeneral,
		Score:           score,
		Rank:            rank,
	}
}

func TestAssignRanks_DenseContiguous(t *testing.T) {
	rows := []model.LeaderboardScore{
		scoreRow(500, 0),
		scoreRow(9000, 0),
		scoreRow(9000, 0), // tie
		scoreRow(100, 0),
		scoreRow(4200, 0),
	}

	updates, _ := service.AssignRanks(rows)

	if len(updates) != len(rows) {
		t.Fatalf("got %d updates, want %d (every row is rewritten)", len(updates), len(rows))
	}

	seen := make(map[int]bool)
	for _, u := range updates {
		if u.Rank < 1 || u.Rank > len(rows) {
			t.Errorf("rank %d outside 1..%d", u.Rank, len(rows))
		}
		if seen[u.Rank] {
			t.Errorf("duplicate rank %d", u.Rank)
		}
		seen[u.Rank] = true
	}
	for r := 1; r <= len(rows); r++ {
		if !seen[r] {
			t.Errorf("rank %d missing, sequence must be contiguous", r)
		}
	}
}

func TestAssignRanks_TiesKeepInputOrder(t *testing.T) {
	first := scoreRow(9000, 0)
	second := scoreRow(9000, 0)
	rows := []model.LeaderboardScore{first, second}

	updates, _ := service.AssignRanks(rows)

	byID := map[uuid.UUID]int{}
	for _, u := range updates {
		byID[u.ID] = u.Rank
	}
	if byID[first.ID] != 1 || byID[second.ID] != 2 {
		t.Errorf("tie order not stable: first=%d second=%d", byID[first.ID], byID[second.ID])
	}
}

func TestAssignRanks_ChangesOnlyWhereRankMoved(t *testing.T) {
	holder := scoreRow(9000, 1)  // stays #1
	climber := scoreRow(8000, 3) // moves 3 -> 2
	slider := scoreRow(7000, 2)  // moves 2 -> 3
	rows := []model.LeaderboardScore{holder, climber, slider}

	_, changes := service.AssignRanks(rows)

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2: %+v", len(changes), changes)
	}
	for _, ch := range changes {
		if ch.UserID == holder.UserID {
			t.Error("unchanged rank must not produce a change")
		}
		if ch.UserID == climber.UserID && (ch.PrevRank != 3 || ch.NewRank != 2) {
			t.Errorf("climber change = %d -> %d, want 3 -> 2", ch.PrevRank, ch.NewRank)
		}
		if ch.UserID == slider.UserID && (ch.PrevRank != 2 || ch.NewRank != 3) {
			t.Errorf("slider change = %d -> %d, want 2 -> 3", ch.PrevRank, ch.NewRank)
		}
	}
}

func TestAssignRanks_FirstAppearanceReported(t *testing.T) {
	newcomer := scoreRow(5000, 0)
	veteran := scoreRow(9000, 1)
	rows := []model.LeaderboardScore{veteran, newcomer}

	_, changes := service.AssignRanks(rows)

	var found bool
	for _, ch := range changes {
		if ch.UserID == newcomer.UserID {
			found = true
			if ch.PrevRank != 0 || ch.NewRank != 2 {
				t.Errorf("newcomer change = %d -> %d, want 0 -> 2", ch.PrevRank, ch.NewRank)
			}
		}
	}
	if !found {
		t.Error("first appearance must be reported as a change")
	}
}

func TestAssignRanks_Empty(t *testing.T) {
	updates, changes := service.AssignRanks(nil)
	if len(updates) != 0 || len(changes) != 0 {
		t.Errorf("empty partition should produce nothing, got %d updates, %d changes", len(updates), len(changes))
	}
}
