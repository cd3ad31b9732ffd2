package models

import "sort"

// Group is a named threat-actor group (intrusion-set). Immutable after load.
type Group struct {
	StixID      string   `json:"stix_id"`
	AttackID    string   `json:"attack_id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description,omitempty"`
	Created     string   `json:"created,omitempty"`
	Modified    string   `json:"modified,omitempty"`
}

// Technique is an adversary technique (attack-pattern). Immutable after load.
type Technique struct {
	StixID       string   `json:"stix_id"`
	AttackID     string   `json:"attack_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tactics      []string `json:"tactics,omitempty"`
	Platforms    []string `json:"platforms,omitempty"`
	DataSources  []string `json:"data_sources,omitempty"`
	Detection    string   `json:"detection,omitempty"`
	SubTechnique bool     `json:"is_subtechnique,omitempty"`
}

// Tactic is a categorical attack stage. Immutable after load.
type Tactic struct {
	StixID    string `json:"stix_id"`
	AttackID  string `json:"attack_id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Relationship is a directed edge between two bundle objects. Only "uses"
// edges from a group to a technique are consumed downstream.
type Relationship struct {
	SourceRef   string `json:"source_ref"`
	TargetRef   string `json:"target_ref"`
	Type        string `json:"relationship_type"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created,omitempty"`
}

// MappingResult is the derived group→technique mapping for one resolved
// group. Built fresh per query, never persisted.
type MappingResult struct {
	Group        *Group
	Techniques   []*Technique      // ordered by AttackID, deduplicated
	TacticCounts map[string]int    // tactic phase name → mapped technique count
	Platforms    []string          // sorted union
	DataSources  []string          // sorted union
	Notes        map[string]string // technique AttackID → relationship description
}

// TacticNames returns the mapped tactic names in sorted order.
func (m *MappingResult) TacticNames() []string {
	out := make([]string, 0, len(m.TacticCounts))
	for name := range m.TacticCounts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
