// Package resolver maps a free-text query to a single threat-actor group.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"attackmap/internal/index"
	"attackmap/internal/logger"
	"attackmap/pkg/models"
)

// DefaultFuzzyThreshold accepts only near-exact fuzzy matches. Anything
// below it becomes a suggestion instead of a silent guess.
const DefaultFuzzyThreshold = 0.90

// DefaultMaxSuggestions caps the suggestion list on a failed resolution.
const DefaultMaxSuggestions = 5

// Suggestion is one near-miss candidate for a failed resolution.
type Suggestion struct {
	AttackID string
	Name     string
	Alias    string // matched alias when it differs from the canonical name
	Score    float64
}

// NotFoundError reports a query with no acceptable match. Suggestions are
// ordered by descending score, ties broken by group name.
type NotFoundError struct {
	Query       string
	Suggestions []Suggestion
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("group %q not found in ATT&CK dataset", e.Query)
}

// Config tunes fuzzy matching.
type Config struct {
	FuzzyThreshold float64
	MaxSuggestions int
}

// Resolver resolves queries against one entity index.
type Resolver struct {
	idx            *index.Index
	fuzzyThreshold float64
	maxSuggestions int
}

// New creates a resolver over the index.
func New(idx *index.Index, cfg Config) *Resolver {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &Resolver{idx: idx, fuzzyThreshold: threshold, maxSuggestions: maxSuggestions}
}

// Resolve matches the query in order: ATT&CK id, canonical name, alias, then
// fuzzy. Identical query and dataset always produce the same group or the
// same ordered suggestion list.
func (r *Resolver) Resolve(query string) (*models.Group, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &NotFoundError{Query: query}
	}

	if g, ok := r.idx.GroupByAttackID(trimmed); ok {
		logger.Infof("Resolved %q by ATT&CK id: %s", trimmed, g.AttackID)
		return g, nil
	}

	// The alias index covers canonical names too, so a single lookup
	// handles both exact-name and exact-alias steps.
	if g, ok := r.idx.GroupByAlias(trimmed); ok {
		logger.Infof("Resolved %q by name/alias: %s (%s)", trimmed, g.Name, g.AttackID)
		return g, nil
	}

	best := r.rank(trimmed)
	if len(best) > 0 && best[0].Score >= r.fuzzyThreshold {
		g, _ := r.idx.GroupByAttackID(best[0].AttackID)
		logger.Infof("Resolved %q by fuzzy match: %s (score=%.2f)", trimmed, g.Name, best[0].Score)
		return g, nil
	}

	if len(best) > r.maxSuggestions {
		best = best[:r.maxSuggestions]
	}
	return nil, &NotFoundError{Query: trimmed, Suggestions: best}
}

// rank scores every group against the query and returns candidates ordered
// by descending score, ties by group name.
func (r *Resolver) rank(query string) []Suggestion {
	qLower := strings.ToLower(query)

	out := make([]Suggestion, 0, 16)
	for _, g := range r.idx.Groups() {
		bestScore := 0.0
		bestAlias := ""

		candidates := append([]string{g.Name}, g.Aliases...)
		for _, candidate := range candidates {
			score := similarity(qLower, strings.ToLower(candidate))
			if score > bestScore {
				bestScore = score
				bestAlias = candidate
			}
		}
		if bestScore <= 0 {
			continue
		}

		s := Suggestion{AttackID: g.AttackID, Name: g.Name, Score: bestScore}
		if !strings.EqualFold(bestAlias, g.Name) {
			s.Alias = bestAlias
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// similarity blends normalized edit distance with substring containment.
// Both inputs must already be lowercased.
func similarity(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	if query == candidate {
		return 1
	}

	longest := len([]rune(query))
	if l := len([]rune(candidate)); l > longest {
		longest = l
	}
	dist := levenshtein.ComputeDistance(query, candidate)
	score := 1 - float64(dist)/float64(longest)

	// Containment catches partial names like "lazarus" → "Lazarus Group"
	// that edit distance punishes for the length difference.
	if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
		shorter := len([]rune(query))
		if l := len([]rune(candidate)); l < shorter {
			shorter = l
		}
		if contained := float64(shorter) / float64(longest); contained > score {
			score = contained
		}
	}

	if score < 0 {
		return 0
	}
	return score
}
