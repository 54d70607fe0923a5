package scoring_test

import (
	"testing"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/scoring"
)

func TestDominantLanguage(t *testing.T) {
	cases := []struct {
		name      string
		languages map[string]int64
		want      string
	}{
		{"empty map", nil, ""},
		{"single language", map[string]int64{"Go": 1200}, "Go"},
		{"largest byte count wins", map[string]int64{"Go": 1200, "TypeScript": 5000, "HTML": 300}, "TypeScript"},
		{"tie breaks lexically", map[string]int64{"Python": 1000, "Go": 1000}, "Go"},
		{"three-way tie breaks lexically", map[string]int64{"Ruby": 7, "PHP": 7, "C": 7}, "C"},
	}

	for _, tc := range cases {
		if got := scoring.DominantLanguage(tc.languages); got != tc.want {
			t.Errorf("%s: DominantLanguage = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDominantLanguage_StableAcrossRuns(t *testing.T) {
	languages := map[string]int64{"Rust": 10, "Go": 10, "Python": 10, "Java": 10}
	first := scoring.DominantLanguage(languages)
	for i := 0; i < 50; i++ {
		if got := scoring.DominantLanguage(languages); got != first {
			t.Fatalf("tie-break not stable: got %q then %q", first, got)
		}
	}
}

func TestDomainFor(t *testing.T) {
	cases := []struct {
		language string
		want     model.Domain
		ok       bool
	}{
		{"JavaScript", model.DomainFrontend, true},
		{"TypeScript", model.DomainFrontend, true},
		{"HTML", model.DomainFrontend, true},
		{"CSS", model.DomainFrontend, true},
		{"Go", model.DomainBackend, true},
		{"Rust", model.DomainBackend, true},
		{"C#", model.DomainBackend, true},
		// Python satisfies both BACKEND and AI_ML; the first match wins.
		{"Python", model.DomainBackend, true},
		{"Jupyter Notebook", model.DomainAIML, true},
		{"R", model.DomainAIML, true},
		{"COBOL", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := scoring.DomainFor(tc.language)
		if ok != tc.ok || got != tc.want {
			t.Errorf("DomainFor(%q) = (%q, %v), want (%q, %v)", tc.language, got, ok, tc.want, tc.ok)
		}
	}
}
