package scoring

import "github.com/ajstars1/0unveiled-leaderboard/internal/model"

var frontendLanguages = map[string]bool{
	"JavaScript": true,
	"TypeScript": true,
	"HTML":       true,
	"CSS":        true,
}

var backendLanguages = map[string]bool{
	"Python": true,
	"Go":     true,
	"Java":   true,
	"Ruby":   true,
	"PHP":    true,
	"C#":     true,
	"Rust":   true,
}

var aimlLanguages = map[string]bool{
	"Python":           true,
	"Jupyter Notebook": true,
	"R":                true,
}

// DominantLanguage returns the language with the highest byte count. Ties
// break lexically so classification is stable across runs.
func DominantLanguage(languages map[string]int64) string {
	var dominant string
	var best int64 = -1
	for lang, bytes := range languages {
		if bytes > best || (bytes == best && lang < dominant) {
			dominant = lang
			best = bytes
		}
	}
	return dominant
}

// DomainFor classifies a language into a leaderboard domain. The check order
// matters: Python satisfies both the backend and AI/ML sets and the first
// match wins, so Python projects always land in BACKEND.
func DomainFor(language string) (model.Domain, bool) {
	switch {
	case frontendLanguages[language]:
		return model.DomainFrontend, true
	case backendLanguages[language]:
		return model.DomainBackend, true
	case aimlLanguages[language]:
		return model.DomainAIML, true
	}
	return "", false
}
