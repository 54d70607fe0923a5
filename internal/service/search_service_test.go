package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ajstars1/0unveiled-leaderboard/internal/dto"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
	"github.com/meilisearch/meilisearch-go"
)

func TestSearch_NilClientDisabled(t *testing.T) {
	svc := NewMeiliSearchService(nil)

	if _, err := svc.Search("maker", 10); !errors.Is(err, apperror.ErrSearchDisabled) {
		t.Errorf("Search with nil client = %v, want ErrSearchDisabled", err)
	}
}

func TestIndexLeaderboard_NilClientNoOp(t *testing.T) {
	svc := NewMeiliSearchService(nil)

	entries := []dto.LeaderboardEntry{{UserID: "u1", Username: "maker", Score: 4200, Rank: 1}}
	if err := svc.IndexLeaderboard(entries); err != nil {
		t.Errorf("IndexLeaderboard with nil client = %v, want nil", err)
	}
}

func TestSearchHitDecodesToEntry(t *testing.T) {
	hit := meilisearch.Hit{
		"id":         json.RawMessage(`"u1"`),
		"username":   json.RawMessage(`"maker"`),
		"headline":   json.RawMessage(`"builds things"`),
		"avatar_url": json.RawMessage(`"https://cdn.example.com/a.png"`),
		"score":      json.RawMessage(`4200`),
		"rank":       json.RawMessage(`3`),
	}

	var doc meiliLeaderboardDoc
	if err := hit.Decode(&doc); err != nil {
		t.Fatalf("Decode returned unexpected error: %v", err)
	}

	e := doc.entry()
	if e.UserID != "u1" || e.Username != "maker" || e.Score != 4200 || e.Rank != 3 {
		t.Errorf("entry = %+v, want u1/maker/4200/3", e)
	}
	if e.Headline == nil || *e.Headline != "builds things" {
		t.Errorf("headline = %v, want set", e.Headline)
	}
	if e.AvatarURL == nil || *e.AvatarURL != "https://cdn.example.com/a.png" {
		t.Errorf("avatar_url = %v, want set", e.AvatarURL)
	}
}

func TestSearchHitOptionalFieldsStayNil(t *testing.T) {
	hit := meilisearch.Hit{
		"id":       json.RawMessage(`"u2"`),
		"username": json.RawMessage(`"terse"`),
		"score":    json.RawMessage(`100`),
		"rank":     json.RawMessage(`99`),
	}

	var doc meiliLeaderboardDoc
	if err := hit.Decode(&doc); err != nil {
		t.Fatalf("Decode returned unexpected error: %v", err)
	}

	e := doc.entry()
	if e.Headline != nil || e.AvatarURL != nil {
		t.Errorf("absent optional fields should stay nil: headline=%v avatar=%v", e.Headline, e.AvatarURL)
	}
}
