package service

import (
	"log"
	"math"
	"sort"

	"github.com/ajstars1/0unveiled-leaderboard/internal/metrics"
	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/scoring"
	"github.com/google/uuid"
)

// scoredItem caches the derived values of one showcased item so score,
// tech stack and domain are computed once per item identity regardless of
// how many groups the item lands in.
type scoredItem struct {
	score  int
	tech   string
	domain string
}

func scoreItem(item model.ShowcasedItem) scoredItem {
	m, err := metrics.Normalize(item.Metadata)
	if err != nil {
		// A malformed payload scores as an empty project instead of
		// aborting the whole batch.
		log.Printf("item %s: undecodable metadata, scoring as empty: %v", item.ID, err)
		m = metrics.ProjectMetrics{}
	}

	lang := scoring.DominantLanguage(m.Repository.Languages)
	var domain string
	if d, ok := scoring.DomainFor(lang); ok {
		domain = string(d)
	}

	return scoredItem{
		score:  scoring.Score(m),
		tech:   lang,
		domain: domain,
	}
}

// AggregateScores turns each eligible user's scored items into upsert rows:
// one GENERAL row plus one row per distinct tech stack and per distinct
// domain, each holding the rounded mean of its group. Users with zero items
// produce nothing. Ranks are provisionally 0 pending the rank assigner.
//
// The second return value maps each user to their GENERAL score; the
// dispatcher uses it for the email threshold.
func AggregateScores(users []model.User, items []model.ShowcasedItem) ([]model.LeaderboardScore, map[uuid.UUID]int) {
	itemsByUser := make(map[uuid.UUID][]model.ShowcasedItem, len(users))
	for _, item := range items {
		itemsByUser[item.UserID] = append(itemsByUser[item.UserID], item)
	}

	memo := make(map[uuid.UUID]scoredItem, len(items))
	scored := func(item model.ShowcasedItem) scoredItem {
		if s, ok := memo[item.ID]; ok {
			return s
		}
		s := scoreItem(item)
		memo[item.ID] = s
		return s
	}

	var rows []model.LeaderboardScore
	generalScores := make(map[uuid.UUID]int, len(users))

	for _, user := range users {
		userItems := itemsByUser[user.ID]
		if len(userItems) == 0 {
			continue
		}

		var all []int
		techGroups := make(map[string][]int)
		domainGroups := make(map[string][]int)

		for _, item := range userItems {
			s := scored(item)
			all = append(all, s.score)
			if s.tech != "" {
				techGroups[s.tech] = append(techGroups[s.tech], s.score)
			}
			if s.domain != "" {
				domainGroups[s.domain] = append(domainGroups[s.domain], s.score)
			}
		}

		general := roundedMean(all)
		generalScores[user.ID] = general
		rows = append(rows, model.LeaderboardScore{
			UserID:          user.ID,
			LeaderboardType: model.TypeGeneral,
			Score:           general,
		})

		for _, tech := range sortedKeys(techGroups) {
			rows = append(rows, model.LeaderboardScore{
				UserID:          user.ID,
				LeaderboardType: model.TypeTechStack,
				TechStack:       tech,
				Score:           roundedMean(techGroups[tech]),
			})
		}
		for _, domain := range sortedKeys(domainGroups) {
			rows = append(rows, model.LeaderboardScore{
				UserID:          user.ID,
				LeaderboardType: model.TypeDomain,
				Domain:          domain,
				Score:           roundedMean(domainGroups[domain]),
			})
		}
	}

	return rows, generalScores
}

func roundedMean(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

func sortedKeys(groups map[string][]int) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
