package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const fixtureBundle = `{
  "type": "bundle",
  "id": "bundle--test",
  "objects": [
    {
      "type": "intrusion-set",
      "id": "intrusion-set--g1",
      "name": "APT1",
      "aliases": ["APT1", "Comment Crew"],
      "description": "Suspected &amp; well documented\ngroup.",
      "created": "2017-05-31T21:31:47.955Z",
      "modified": "2023-03-21T18:05:36.724Z",
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "G0006"}
      ]
    },
    {
      "type": "intrusion-set",
      "id": "intrusion-set--old",
      "name": "Retired Group",
      "revoked": true,
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "G9999"}
      ]
    },
    {
      "type": "attack-pattern",
      "id": "attack-pattern--t1",
      "name": "Command and Scripting Interpreter",
      "kill_chain_phases": [
        {"kill_chain_name": "mitre-attack", "phase_name": "execution"}
      ],
      "x_mitre_platforms": ["Windows", "Linux"],
      "x_mitre_data_sources": ["Process: Process Creation"],
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "T1059"}
      ]
    },
    {
      "type": "attack-pattern",
      "id": "attack-pattern--dep",
      "name": "Old Technique",
      "x_mitre_deprecated": true,
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "T9999"}
      ]
    },
    {
      "type": "x-mitre-tactic",
      "id": "x-mitre-tactic--exec",
      "name": "Execution",
      "x_mitre_shortname": "execution",
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "TA0002"}
      ]
    },
    {
      "type": "relationship",
      "id": "relationship--r1",
      "relationship_type": "uses",
      "source_ref": "intrusion-set--g1",
      "target_ref": "attack-pattern--t1",
      "description": "APT1 uses scripting."
    }
  ]
}`

func TestParseSplitsCollectionsAndDropsDeprecated(t *testing.T) {
	cols, err := Parse([]byte(fixtureBundle))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if len(cols.Groups) != 1 {
		t.Fatalf("expected 1 group after dropping revoked, got %d", len(cols.Groups))
	}
	if len(cols.Techniques) != 1 {
		t.Fatalf("expected 1 technique after dropping deprecated, got %d", len(cols.Techniques))
	}
	if len(cols.Tactics) != 1 || len(cols.Relationships) != 1 {
		t.Fatalf("unexpected tactic/relationship counts: %d/%d", len(cols.Tactics), len(cols.Relationships))
	}

	g := cols.Groups[0]
	if g.AttackID != "G0006" || g.Name != "APT1" {
		t.Fatalf("unexpected group: %+v", g)
	}
	if g.Description != "Suspected & well documented group." {
		t.Fatalf("expected cleaned description, got %q", g.Description)
	}

	tech := cols.Techniques[0]
	if tech.AttackID != "T1059" {
		t.Fatalf("unexpected technique attack id: %s", tech.AttackID)
	}
	if len(tech.Tactics) != 1 || tech.Tactics[0] != "execution" {
		t.Fatalf("unexpected technique tactics: %v", tech.Tactics)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	var parseErr *ParseError

	if _, err := Parse([]byte("{not json")); !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for malformed JSON, got %v", err)
	}
	if _, err := Parse([]byte(`{"type": "report", "objects": []}`)); !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for non-bundle document, got %v", err)
	}
}

func TestHTTPSourceFetchesBundle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureBundle))
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{URL: srv.URL})
	raw, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected bundle bytes")
	}
}

func TestHTTPSourceReportsFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{URL: srv.URL})
	_, err := src.Fetch(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.URL != srv.URL {
		t.Fatalf("expected error to carry URL %s, got %s", srv.URL, fetchErr.URL)
	}
}

type stubSource struct {
	raw []byte
	err error
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.raw, s.err
}

func TestLoadPropagatesSourceFailure(t *testing.T) {
	wantErr := &FetchError{URL: "test", Err: errors.New("boom")}
	if _, err := Load(context.Background(), &stubSource{err: wantErr}); err == nil {
		t.Fatalf("expected load to fail")
	}

	cols, err := Load(context.Background(), &stubSource{raw: []byte(fixtureBundle)})
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(cols.Groups) != 1 {
		t.Fatalf("expected parsed collections from stub source")
	}
}
