// Package scoring holds the pure project-quality scorer and the language
// classifier. Nothing here touches the database.
package scoring

import (
	"math"

	"github.com/ajstars1/0unveiled-leaderboard/internal/metrics"
)

// Weights of the four sub-scores. Each sub-score is clamped to [0,100]
// before weighting; the weighted composite is rescaled by 100 so scores are
// stored as integers in [0,10000].
const (
	weightAIInsights = 0.40
	weightImpact     = 0.25
	weightTechnical  = 0.20
	weightRelevance  = 0.15
)

// MaxScore is the upper bound of a stored composite score.
const MaxScore = 10000

// Score maps a project's normalized metrics to a composite quality score in
// [0, MaxScore]. Deterministic: identical metrics always yield the same score.
func Score(m metrics.ProjectMetrics) int {
	composite := aiInsightsScore(m)*weightAIInsights +
		impactScore(m)*weightImpact +
		technicalScore(m)*weightTechnical +
		relevanceScore(m)*weightRelevance

	score := int(math.Round(composite * 100))
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// aiInsightsScore prefers the AI analysis block; without one it falls back to
// a basic popularity estimate.
func aiInsightsScore(m metrics.ProjectMetrics) float64 {
	ai := m.AIInsights
	if ai == nil {
		return basicScore(m.Repository)
	}

	s := math.Min(50, ai.OverallQuality)

	switch ai.Maturity {
	case "mature":
		s += 12
	case "developing":
		s += 8
	case "experimental":
		s += 4
	}
	switch ai.Stage {
	case "production":
		s += 8
	case "mvp":
		s += 6
	case "prototype":
		s += 3
	}

	s += math.Min(20, float64(len(ai.Strengths))*4)
	s += math.Min(10, ai.BestPractices/10)

	return math.Min(100, s)
}

func basicScore(r metrics.RepositoryStats) float64 {
	s := 30.0
	s += math.Min(25, math.Log10(float64(r.Stars)+1)*8)
	s += math.Min(20, math.Log10(float64(r.Forks)+1)*10)
	if r.Description != "" {
		s += 15
	}
	if len(r.Topics) > 0 {
		s += 10
	}
	return math.Min(100, s)
}

// impactScore measures community reach. Monotonically non-decreasing in
// stars, forks and watchers.
func impactScore(m metrics.ProjectMetrics) float64 {
	r := m.Repository
	influence := r.Stars*3 + r.Forks*5 + r.Watchers

	var s float64
	if influence > 0 {
		s = math.Min(85, math.Log10(float64(influence)+1)*15)
	}
	s += math.Min(15, float64(r.OpenIssues)*0.5)

	return math.Min(100, s)
}

// technicalScore aggregates security, quality and code-metrics signals.
//
// Note two intentional asymmetries: a non-zero architecture score is added
// raw (capped at 15, never scaled by 0.15), and the complexity term rewards
// low cyclomatic complexity instead of penalizing high complexity. Stored
// scores depend on both, so neither may change without a full recompute.
func technicalScore(m metrics.ProjectMetrics) float64 {
	var s float64

	if sec := m.Security; sec != nil {
		s += math.Min(30, sec.Score*0.3)
	}

	if q := m.Quality; q != nil {
		s += math.Min(15, q.DocstringCoverage*0.15)
		if q.ArchitectureScore != 0 {
			s += math.Min(15, q.ArchitectureScore)
		}
		s += math.Min(10, q.TestToCodeRatio*20)
	}

	if c := m.Code; c != nil {
		s += math.Min(15, c.Maintainability*0.15)
		s += math.Max(0, 15-c.CyclomaticComplexity)
	} else {
		s += 20
	}

	return math.Min(100, s)
}

// relevanceScore measures how employable the project's technology choices are.
func relevanceScore(m metrics.ProjectMetrics) float64 {
	var s float64

	if ts := m.TechStack; ts != nil {
		s += math.Min(25, ts.Modernness*0.25)
		s += math.Min(15, float64(ts.TotalTechnologies)*2)
		s += math.Min(10, float64(len(ts.Frameworks))*2)
	} else {
		s += languageModernity(DominantLanguage(m.Repository.Languages))
	}

	if ai := m.AIInsights; ai != nil {
		s += math.Min(15, float64(len(ai.IndustryAlignment))*3)
		switch ai.CareerImpact {
		case "high":
			s += 15
		case "medium":
			s += 10
		case "low":
			s += 5
		}
	}

	// Completeness bonus, at most 20 by construction.
	r := m.Repository
	if r.Description != "" {
		s += 5
	}
	if r.HasReadme {
		s += 5
	}
	if r.License != "" {
		s += 5
	}
	if len(r.Topics) > 0 {
		s += 5
	}

	return math.Min(100, s)
}

var modernityByLanguage = map[string]float64{
	"TypeScript": 25,
	"Rust":       25,
	"Go":         24,
	"Swift":      23,
	"Kotlin":     22,
	"Python":     21,
	"JavaScript": 20,
	"Java":       18,
	"C#":         17,
	"Ruby":       16,
	"PHP":        14,
	"C++":        13,
	"C":          12,
}

func languageModernity(language string) float64 {
	if language == "" {
		return 15
	}
	if v, ok := modernityByLanguage[language]; ok {
		return v
	}
	return 15
}
