// Package mapper derives the technique mapping for one resolved group.
package mapper

import (
	"sort"

	"attackmap/internal/index"
	"attackmap/internal/logger"
	"attackmap/pkg/models"
)

// Mapper walks precomputed group→technique edges to build mapping results.
type Mapper struct {
	idx *index.Index
}

// New creates a mapper over the index.
func New(idx *index.Index) *Mapper {
	return &Mapper{idx: idx}
}

// Map collects the techniques linked to the group and aggregates tactic
// counts, platforms, and data sources. A group with no linked techniques
// yields a valid empty result, not an error.
func (m *Mapper) Map(group *models.Group) *models.MappingResult {
	result := &models.MappingResult{
		Group:        group,
		Techniques:   []*models.Technique{},
		TacticCounts: make(map[string]int),
		Notes:        make(map[string]string),
	}

	platforms := make(map[string]bool)
	dataSources := make(map[string]bool)
	mapped := make(map[string]bool)

	for _, stixID := range m.idx.TechniquesFor(group.StixID) {
		tech, ok := m.idx.Technique(stixID)
		if !ok {
			continue
		}
		// The index already dedupes edges; this guards the invariant that
		// a group never reports the same technique twice.
		if mapped[tech.AttackID] {
			continue
		}
		mapped[tech.AttackID] = true

		result.Techniques = append(result.Techniques, tech)
		for _, tactic := range tech.Tactics {
			result.TacticCounts[tactic]++
		}
		for _, platform := range tech.Platforms {
			platforms[platform] = true
		}
		for _, ds := range tech.DataSources {
			dataSources[ds] = true
		}
		if note := m.idx.RelationNote(group.StixID, stixID); note != "" {
			result.Notes[tech.AttackID] = note
		}
	}

	sort.Slice(result.Techniques, func(i, j int) bool {
		return result.Techniques[i].AttackID < result.Techniques[j].AttackID
	})
	result.Platforms = sortedKeys(platforms)
	result.DataSources = sortedKeys(dataSources)

	logger.Infof("Mapped %s (%s): techniques=%d tactics=%d platforms=%d",
		group.Name, group.AttackID, len(result.Techniques), len(result.TacticCounts), len(result.Platforms))
	return result
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
