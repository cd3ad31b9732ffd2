package resolver

import (
	"errors"
	"testing"

	"attackmap/internal/dataset"
	"attackmap/internal/index"
	"attackmap/pkg/models"
)

func fixtureIndex(t *testing.T) *index.Index {
	t.Helper()
	cols := &dataset.Collections{
		Groups: []*models.Group{
			{StixID: "intrusion-set--g1", AttackID: "G0006", Name: "APT1", Aliases: []string{"APT1", "Comment Crew"}},
			{StixID: "intrusion-set--g2", AttackID: "G0016", Name: "APT29", Aliases: []string{"APT29", "Cozy Bear", "The Dukes"}},
			{StixID: "intrusion-set--g3", AttackID: "G0032", Name: "Lazarus Group", Aliases: []string{"Lazarus Group", "HIDDEN COBRA"}},
		},
		Techniques: []*models.Technique{
			{StixID: "attack-pattern--t1", AttackID: "T1059", Name: "Command and Scripting Interpreter"},
		},
		Tactics: []*models.Tactic{
			{StixID: "x-mitre-tactic--1", AttackID: "TA0002", Name: "Execution", ShortName: "execution"},
		},
	}
	idx, err := index.Build(cols)
	if err != nil {
		t.Fatalf("failed to build fixture index: %v", err)
	}
	return idx
}

func TestResolveByIDNameAndAlias(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	for _, query := range []string{"G0006", "g0006", "APT1", "apt1", "Comment Crew", "comment crew"} {
		g, err := r.Resolve(query)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", query, err)
		}
		if g.AttackID != "G0006" {
			t.Fatalf("Resolve(%q) = %s, want G0006", query, g.AttackID)
		}
	}
}

func TestResolveTypoReturnsSuggestions(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	_, err := r.Resolve("Aptt1")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(notFound.Suggestions) == 0 {
		t.Fatalf("expected suggestions for near-miss query")
	}
	if notFound.Suggestions[0].Name != "APT1" {
		t.Fatalf("expected top suggestion APT1, got %+v", notFound.Suggestions[0])
	}
}

func TestResolveAcceptsNearExactFuzzyMatch(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	// One missing rune out of twelve scores above the acceptance threshold.
	g, err := r.Resolve("Comment Cre")
	if err != nil {
		t.Fatalf("expected fuzzy acceptance, got %v", err)
	}
	if g.AttackID != "G0006" {
		t.Fatalf("unexpected fuzzy resolution: %s", g.AttackID)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	var first *NotFoundError
	for i := 0; i < 3; i++ {
		_, err := r.Resolve("apt")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if first == nil {
			first = notFound
			continue
		}
		if len(first.Suggestions) != len(notFound.Suggestions) {
			t.Fatalf("suggestion count changed between runs")
		}
		for j := range first.Suggestions {
			if first.Suggestions[j] != notFound.Suggestions[j] {
				t.Fatalf("suggestion %d changed between runs: %+v vs %+v", j, first.Suggestions[j], notFound.Suggestions[j])
			}
		}
	}
}

func TestResolveSuggestionsOrderedByScore(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	_, err := r.Resolve("apt")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// "apt" is contained in both APT1 and APT29; the shorter candidate
	// scores higher, so APT1 must come first.
	if len(notFound.Suggestions) < 2 {
		t.Fatalf("expected at least 2 suggestions, got %d", len(notFound.Suggestions))
	}
	if notFound.Suggestions[0].Name != "APT1" {
		t.Fatalf("expected APT1 first, got %s", notFound.Suggestions[0].Name)
	}
	if notFound.Suggestions[1].Name != "APT29" {
		t.Fatalf("expected APT29 second, got %s", notFound.Suggestions[1].Name)
	}
}

func TestResolveEmptyQueryFails(t *testing.T) {
	r := New(fixtureIndex(t), Config{})

	_, err := r.Resolve("   ")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for empty query, got %v", err)
	}
}

func TestResolveCapsSuggestions(t *testing.T) {
	r := New(fixtureIndex(t), Config{MaxSuggestions: 1})

	_, err := r.Resolve("apt")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(notFound.Suggestions) != 1 {
		t.Fatalf("expected suggestion list capped at 1, got %d", len(notFound.Suggestions))
	}
}
