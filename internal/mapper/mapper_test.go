package mapper

import (
	"testing"

	"attackmap/internal/dataset"
	"attackmap/internal/index"
	"attackmap/pkg/models"
)

func fixtureIndex(t *testing.T) *index.Index {
	t.Helper()
	cols := &dataset.Collections{
		Groups: []*models.Group{
			{StixID: "intrusion-set--g1", AttackID: "G0006", Name: "APT1", Aliases: []string{"APT1"}},
			{StixID: "intrusion-set--g2", AttackID: "G0016", Name: "APT29", Aliases: []string{"APT29"}},
		},
		Techniques: []*models.Technique{
			{
				StixID:      "attack-pattern--t1",
				AttackID:    "T1059",
				Name:        "Command and Scripting Interpreter",
				Tactics:     []string{"execution"},
				Platforms:   []string{"Windows", "Linux"},
				DataSources: []string{"Process: Process Creation"},
			},
			{
				StixID:      "attack-pattern--t2",
				AttackID:    "T1078",
				Name:        "Valid Accounts",
				Tactics:     []string{"defense-evasion", "persistence", "initial-access"},
				Platforms:   []string{"Windows", "macOS"},
				DataSources: []string{"Logon Session: Logon Session Creation"},
			},
		},
		Tactics: []*models.Tactic{
			{StixID: "x-mitre-tactic--1", AttackID: "TA0002", Name: "Execution", ShortName: "execution"},
		},
		Relationships: []*models.Relationship{
			{SourceRef: "intrusion-set--g1", TargetRef: "attack-pattern--t2", Type: "uses", Description: "Stolen credentials."},
			{SourceRef: "intrusion-set--g1", TargetRef: "attack-pattern--t1", Type: "uses"},
			{SourceRef: "intrusion-set--g1", TargetRef: "attack-pattern--t1", Type: "uses"},
		},
	}
	idx, err := index.Build(cols)
	if err != nil {
		t.Fatalf("failed to build fixture index: %v", err)
	}
	return idx
}

func TestMapAggregatesTechniquesTacticsAndPlatforms(t *testing.T) {
	idx := fixtureIndex(t)
	g, _ := idx.GroupByAttackID("G0006")

	result := New(idx).Map(g)

	if len(result.Techniques) != 2 {
		t.Fatalf("expected 2 techniques despite duplicate edges, got %d", len(result.Techniques))
	}
	if result.Techniques[0].AttackID != "T1059" || result.Techniques[1].AttackID != "T1078" {
		t.Fatalf("expected techniques ordered by attack id, got %s, %s",
			result.Techniques[0].AttackID, result.Techniques[1].AttackID)
	}

	// T1078 references three tactics and increments each.
	wantCounts := map[string]int{"execution": 1, "defense-evasion": 1, "persistence": 1, "initial-access": 1}
	for name, want := range wantCounts {
		if result.TacticCounts[name] != want {
			t.Fatalf("tactic %s count = %d, want %d", name, result.TacticCounts[name], want)
		}
	}

	wantPlatforms := []string{"Linux", "Windows", "macOS"}
	if len(result.Platforms) != len(wantPlatforms) {
		t.Fatalf("unexpected platforms: %v", result.Platforms)
	}
	for i, p := range wantPlatforms {
		if result.Platforms[i] != p {
			t.Fatalf("expected sorted platform union %v, got %v", wantPlatforms, result.Platforms)
		}
	}

	if len(result.DataSources) != 2 {
		t.Fatalf("unexpected data sources: %v", result.DataSources)
	}
	if result.Notes["T1078"] != "Stolen credentials." {
		t.Fatalf("expected relationship note on T1078, got %q", result.Notes["T1078"])
	}
}

func TestMapGroupWithoutTechniquesReturnsEmptyResult(t *testing.T) {
	idx := fixtureIndex(t)
	g, _ := idx.GroupByAttackID("G0016")

	result := New(idx).Map(g)

	if result == nil {
		t.Fatalf("expected a valid empty result, got nil")
	}
	if len(result.Techniques) != 0 {
		t.Fatalf("expected zero techniques, got %d", len(result.Techniques))
	}
	if len(result.TacticCounts) != 0 || len(result.Platforms) != 0 {
		t.Fatalf("expected empty aggregates, got %+v", result)
	}
}
