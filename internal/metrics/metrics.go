// Package metrics normalizes the analyzer payload stored on a showcased item
// into one typed value. The payload has grown two spellings over time (metric
// blocks were renamed when the analyzer was rewritten), so normalization is
// the single place that deals with both; everything downstream consumes
// ProjectMetrics only.
package metrics

import "encoding/json"

// ProjectMetrics is the normalized shape the score calculator consumes.
// Optional analyzer blocks are nil when the payload lacks them.
type ProjectMetrics struct {
	Repository RepositoryStats
	AIInsights *AIInsights
	Security   *SecurityMetrics
	Quality    *QualityMetrics
	Code       *CodeMetrics
	TechStack  *TechStackInfo
}

type RepositoryStats struct {
	Stars       int
	Forks       int
	Watchers    int
	OpenIssues  int
	Description string
	Topics      []string
	License     string
	HasReadme   bool
	// Languages maps language name to byte count.
	Languages map[string]int64
}

type AIInsights struct {
	OverallQuality    float64
	Maturity          string // experimental, developing, mature
	Stage             string // prototype, mvp, production
	Strengths         []string
	BestPractices     float64
	IndustryAlignment []string
	CareerImpact      string // low, medium, high
}

type SecurityMetrics struct {
	Score float64
}

type QualityMetrics struct {
	DocstringCoverage float64
	ArchitectureScore float64
	TestToCodeRatio   float64
}

type CodeMetrics struct {
	Maintainability      float64
	CyclomaticComplexity float64
}

type TechStackInfo struct {
	Modernness        float64
	TotalTechnologies int
	Frameworks        []string
}

// raw mirrors the stored payload. Repository statistics appear either inside
// a "repository" block (new analyzer) or flat at the top level (legacy
// imports); metric blocks appear under short or "_metrics" names.
type rawPayload struct {
	Repository *rawRepository `json:"repository"`

	// Legacy flat repository fields.
	Stars       *int             `json:"stargazers_count"`
	Forks       *int             `json:"forks_count"`
	Watchers    *int             `json:"watchers_count"`
	OpenIssues  *int             `json:"open_issues_count"`
	Description *string          `json:"description"`
	Topics      []string         `json:"topics"`
	License     *string          `json:"license"`
	HasReadme   *bool            `json:"has_readme"`
	Languages   map[string]int64 `json:"languages"`

	AIInsights *rawAIInsights `json:"ai_insights"`

	Security        *rawSecurity `json:"security"`
	SecurityMetrics *rawSecurity `json:"security_metrics"`

	Quality        *rawQuality `json:"quality"`
	QualityMetrics *rawQuality `json:"quality_metrics"`

	Code        *rawCode `json:"code_metrics"`
	CodeMetrics *rawCode `json:"code"`

	TechStack *rawTechStack `json:"tech_stack"`
}

type rawRepository struct {
	Stars       int              `json:"stargazers_count"`
	Forks       int              `json:"forks_count"`
	Watchers    int              `json:"watchers_count"`
	OpenIssues  int              `json:"open_issues_count"`
	Description string           `json:"description"`
	Topics      []string         `json:"topics"`
	License     string           `json:"license"`
	HasReadme   bool             `json:"has_readme"`
	Languages   map[string]int64 `json:"languages"`
}

type rawAIInsights struct {
	OverallQuality    float64  `json:"overall_quality_score"`
	Maturity          string   `json:"project_maturity"`
	Stage             string   `json:"development_stage"`
	Strengths         []string `json:"strengths"`
	BestPractices     float64  `json:"best_practices_adherence"`
	IndustryAlignment []string `json:"industry_alignment"`
	CareerImpact      string   `json:"career_impact"`
}

type rawSecurity struct {
	Score float64 `json:"security_score"`
}

type rawQuality struct {
	DocstringCoverage float64 `json:"docstring_coverage"`
	ArchitectureScore float64 `json:"architecture_score"`
	TestToCodeRatio   float64 `json:"test_to_code_ratio"`
}

type rawCode struct {
	Maintainability      float64 `json:"maintainability_index"`
	CyclomaticComplexity float64 `json:"cyclomatic_complexity"`
}

type rawTechStack struct {
	Modernness        float64  `json:"modernness_score"`
	TotalTechnologies int      `json:"total_technologies"`
	Frameworks        []string `json:"frameworks"`
}

// Normalize decodes an item's metadata payload. An undecodable payload yields
// zero metrics and the decode error; callers score the item as empty rather
// than aborting the batch.
func Normalize(payload []byte) (ProjectMetrics, error) {
	var m ProjectMetrics
	if len(payload) == 0 {
		return m, nil
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ProjectMetrics{}, err
	}

	if raw.Repository != nil {
		m.Repository = RepositoryStats{
			Stars:       raw.Repository.Stars,
			Forks:       raw.Repository.Forks,
			Watchers:    raw.Repository.Watchers,
			OpenIssues:  raw.Repository.OpenIssues,
			Description: raw.Repository.Description,
			Topics:      raw.Repository.Topics,
			License:     raw.Repository.License,
			HasReadme:   raw.Repository.HasReadme,
			Languages:   raw.Repository.Languages,
		}
	} else {
		if raw.Stars != nil {
			m.Repository.Stars = *raw.Stars
		}
		if raw.Forks != nil {
			m.Repository.Forks = *raw.Forks
		}
		if raw.Watchers != nil {
			m.Repository.Watchers = *raw.Watchers
		}
		if raw.OpenIssues != nil {
			m.Repository.OpenIssues = *raw.OpenIssues
		}
		if raw.Description != nil {
			m.Repository.Description = *raw.Description
		}
		if raw.License != nil {
			m.Repository.License = *raw.License
		}
		if raw.HasReadme != nil {
			m.Repository.HasReadme = *raw.HasReadme
		}
		m.Repository.Topics = raw.Topics
		m.Repository.Languages = raw.Languages
	}
	// Legacy payloads sometimes carry languages beside a repository block.
	if m.Repository.Languages == nil && raw.Languages != nil {
		m.Repository.Languages = raw.Languages
	}

	if raw.AIInsights != nil {
		m.AIInsights = &AIInsights{
			OverallQuality:    raw.AIInsights.OverallQuality,
			Maturity:          raw.AIInsights.Maturity,
			Stage:             raw.AIInsights.Stage,
			Strengths:         raw.AIInsights.Strengths,
			BestPractices:     raw.AIInsights.BestPractices,
			IndustryAlignment: raw.AIInsights.IndustryAlignment,
			CareerImpact:      raw.AIInsights.CareerImpact,
		}
	}

	if sec := firstOf(raw.Security, raw.SecurityMetrics); sec != nil {
		m.Security = &SecurityMetrics{Score: sec.Score}
	}

	if q := firstOf(raw.Quality, raw.QualityMetrics); q != nil {
		m.Quality = &QualityMetrics{
			DocstringCoverage: q.DocstringCoverage,
			ArchitectureScore: q.ArchitectureScore,
			TestToCodeRatio:   q.TestToCodeRatio,
		}
	}

	if c := firstOf(raw.Code, raw.CodeMetrics); c != nil {
		m.Code = &CodeMetrics{
			Maintainability:      c.Maintainability,
			CyclomaticComplexity: c.CyclomaticComplexity,
		}
	}

	if raw.TechStack != nil {
		m.TechStack = &TechStackInfo{
			Modernness:        raw.TechStack.Modernness,
			TotalTechnologies: raw.TechStack.TotalTechnologies,
			Frameworks:        raw.TechStack.Frameworks,
		}
	}

	return m, nil
}

func firstOf[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
