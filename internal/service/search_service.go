package service

import (
	"log"

	"github.com/ajstars1/0unveiled-leaderboard/internal/dto"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const leaderboardIndex = "leaderboard"

type SearchService interface {
	// IndexLeaderboard replaces the search documents for the GENERAL
	// leaderboard after a recompute.
	IndexLeaderboard(entries []dto.LeaderboardEntry) error
	Search(query string, limit int) ([]dto.LeaderboardEntry, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewMeiliSearchService wires the leaderboard search index. A nil client
// disables search; IndexLeaderboard becomes a no-op and Search reports
// apperror.ErrSearchDisabled.
func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *meiliSearchService) initIndex() {
	sortableAttrs := []string{"rank", "score"}
	if _, err := s.client.Index(leaderboardIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update leaderboard sortable attributes: %v", err)
	}

	searchableAttrs := []string{"username", "headline"}
	if _, err := s.client.Index(leaderboardIndex).UpdateSearchableAttributes(&searchableAttrs); err != nil {
		log.Printf("Failed to update leaderboard searchable attributes: %v", err)
	}
}

type meiliLeaderboardDoc struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Headline  string `json:"headline"`
	AvatarURL string `json:"avatar_url"`
	Score     int    `json:"score"`
	Rank      int    `json:"rank"`
}

func (s *meiliSearchService) IndexLeaderboard(entries []dto.LeaderboardEntry) error {
	if s.client == nil {
		return nil
	}

	docs := make([]meiliLeaderboardDoc, 0, len(entries))
	for _, e := range entries {
		doc := meiliLeaderboardDoc{
			ID:       e.UserID,
			Username: s.sanitizer.Sanitize(e.Username),
			Score:    e.Score,
			Rank:     e.Rank,
		}
		if e.Headline != nil {
			doc.Headline = s.sanitizer.Sanitize(*e.Headline)
		}
		if e.AvatarURL != nil {
			doc.AvatarURL = *e.AvatarURL
		}
		docs = append(docs, doc)
	}

	_, err := s.client.Index(leaderboardIndex).AddDocuments(docs, strPtr("id"))
	return err
}

func (s *meiliSearchService) Search(query string, limit int) ([]dto.LeaderboardEntry, error) {
	if s.client == nil {
		return nil, apperror.ErrSearchDisabled
	}

	res, err := s.client.Index(leaderboardIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
		Sort:  []string{"rank:asc"},
	})
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		var doc meiliLeaderboardDoc
		if err := hit.Decode(&doc); err != nil {
			continue
		}
		entries = append(entries, doc.entry())
	}

	return entries, nil
}

// entry converts an indexed document back to the API shape.
func (d meiliLeaderboardDoc) entry() dto.LeaderboardEntry {
	e := dto.LeaderboardEntry{
		UserID:   d.ID,
		Username: d.Username,
		Score:    d.Score,
		Rank:     d.Rank,
	}
	if d.Headline != "" {
		e.Headline = &d.Headline
	}
	if d.AvatarURL != "" {
		e.AvatarURL = &d.AvatarURL
	}
	return e
}

func strPtr(s string) *string {
	return &s
}
