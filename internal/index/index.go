// Package index builds in-memory lookup structures over one loaded dataset.
package index

import (
	"sort"
	"strings"

	"attackmap/internal/dataset"
	"attackmap/internal/logger"
	"attackmap/pkg/models"
)

// BuildError reports a bundle missing required entity types, which usually
// means an empty dataset or upstream schema drift.
type BuildError struct {
	Missing []string
}

func (e *BuildError) Error() string {
	return "dataset bundle is missing required entity types: " + strings.Join(e.Missing, ", ")
}

// Index holds the lookup structures for one dataset. Read-only after Build.
type Index struct {
	groupsByStixID   map[string]*models.Group
	groupsByAttackID map[string]*models.Group
	groupsByAlias    map[string]string // lowercase name/alias → group STIX id
	techniques       map[string]*models.Technique
	tacticsByShort   map[string]*models.Tactic
	groupTechniques  map[string][]string // group STIX id → technique STIX ids
	relationNotes    map[string]string   // "<group stix>|<technique stix>" → description
	groupOrder       []string            // AttackIDs sorted, for deterministic walks
}

// Build constructs the index from parsed collections.
func Build(cols *dataset.Collections) (*Index, error) {
	var missing []string
	if len(cols.Groups) == 0 {
		missing = append(missing, "intrusion-set")
	}
	if len(cols.Techniques) == 0 {
		missing = append(missing, "attack-pattern")
	}
	if len(cols.Tactics) == 0 {
		missing = append(missing, "x-mitre-tactic")
	}
	if len(missing) > 0 {
		return nil, &BuildError{Missing: missing}
	}

	idx := &Index{
		groupsByStixID:   make(map[string]*models.Group, len(cols.Groups)),
		groupsByAttackID: make(map[string]*models.Group, len(cols.Groups)),
		groupsByAlias:    make(map[string]string, len(cols.Groups)*4),
		techniques:       make(map[string]*models.Technique, len(cols.Techniques)),
		tacticsByShort:   make(map[string]*models.Tactic, len(cols.Tactics)),
		groupTechniques:  make(map[string][]string, len(cols.Groups)),
		relationNotes:    make(map[string]string),
	}

	for _, g := range cols.Groups {
		idx.groupsByStixID[g.StixID] = g
		if g.AttackID != "" {
			idx.groupsByAttackID[strings.ToUpper(g.AttackID)] = g
		}
		// The canonical name always participates in alias matching.
		idx.addAlias(g.Name, g)
		for _, alias := range g.Aliases {
			idx.addAlias(alias, g)
		}
	}

	for _, t := range cols.Techniques {
		idx.techniques[t.StixID] = t
	}
	for _, tac := range cols.Tactics {
		idx.tacticsByShort[tac.ShortName] = tac
	}

	seen := make(map[string]map[string]bool)
	for _, rel := range cols.Relationships {
		if rel.Type != "uses" {
			continue
		}
		if _, ok := idx.groupsByStixID[rel.SourceRef]; !ok {
			continue
		}
		if _, ok := idx.techniques[rel.TargetRef]; !ok {
			continue
		}
		if seen[rel.SourceRef] == nil {
			seen[rel.SourceRef] = make(map[string]bool)
		}
		noteKey := rel.SourceRef + "|" + rel.TargetRef
		if rel.Description != "" {
			if _, ok := idx.relationNotes[noteKey]; !ok {
				idx.relationNotes[noteKey] = rel.Description
			}
		}
		if seen[rel.SourceRef][rel.TargetRef] {
			continue
		}
		seen[rel.SourceRef][rel.TargetRef] = true
		idx.groupTechniques[rel.SourceRef] = append(idx.groupTechniques[rel.SourceRef], rel.TargetRef)
	}

	// Order each technique list by ATT&CK id so mapping output is stable
	// regardless of relationship order in the bundle.
	for gid, ids := range idx.groupTechniques {
		sort.Slice(ids, func(i, j int) bool {
			return idx.techniques[ids[i]].AttackID < idx.techniques[ids[j]].AttackID
		})
		idx.groupTechniques[gid] = ids
	}

	idx.groupOrder = make([]string, 0, len(idx.groupsByAttackID))
	for attackID := range idx.groupsByAttackID {
		idx.groupOrder = append(idx.groupOrder, attackID)
	}
	sort.Strings(idx.groupOrder)

	return idx, nil
}

// addAlias registers a lowercase alias. First writer wins on collision; the
// loser is logged so shared aliases are at least visible.
func (idx *Index) addAlias(alias string, g *models.Group) {
	key := strings.ToLower(strings.TrimSpace(alias))
	if key == "" {
		return
	}
	if prev, ok := idx.groupsByAlias[key]; ok {
		if prev != g.StixID {
			logger.Debugf("Alias collision: %q already maps to %s, ignoring %s", alias, prev, g.AttackID)
		}
		return
	}
	idx.groupsByAlias[key] = g.StixID
}

// GroupByAttackID returns the group with the given ATT&CK id (case-insensitive).
func (idx *Index) GroupByAttackID(id string) (*models.Group, bool) {
	g, ok := idx.groupsByAttackID[strings.ToUpper(strings.TrimSpace(id))]
	return g, ok
}

// GroupByAlias returns the group matching a name or alias (case-insensitive).
func (idx *Index) GroupByAlias(alias string) (*models.Group, bool) {
	gid, ok := idx.groupsByAlias[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return nil, false
	}
	return idx.groupsByStixID[gid], true
}

// Technique returns a technique by STIX id.
func (idx *Index) Technique(stixID string) (*models.Technique, bool) {
	t, ok := idx.techniques[stixID]
	return t, ok
}

// Tactic returns a tactic by kill-chain short name.
func (idx *Index) Tactic(shortName string) (*models.Tactic, bool) {
	t, ok := idx.tacticsByShort[shortName]
	return t, ok
}

// TechniquesFor returns the ordered, deduplicated technique STIX ids linked
// to a group by "uses" relationships.
func (idx *Index) TechniquesFor(groupStixID string) []string {
	return idx.groupTechniques[groupStixID]
}

// RelationNote returns the first recorded relationship description for a
// group/technique pair.
func (idx *Index) RelationNote(groupStixID, techniqueStixID string) string {
	return idx.relationNotes[groupStixID+"|"+techniqueStixID]
}

// Groups returns all groups ordered by ATT&CK id.
func (idx *Index) Groups() []*models.Group {
	out := make([]*models.Group, 0, len(idx.groupOrder))
	for _, attackID := range idx.groupOrder {
		out = append(out, idx.groupsByAttackID[attackID])
	}
	return out
}

// GroupCount returns the number of indexed groups.
func (idx *Index) GroupCount() int { return len(idx.groupsByStixID) }

// TechniqueCount returns the number of indexed techniques.
func (idx *Index) TechniqueCount() int { return len(idx.techniques) }

// TacticCount returns the number of indexed tactics.
func (idx *Index) TacticCount() int { return len(idx.tacticsByShort) }
