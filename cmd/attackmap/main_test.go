package main

import "testing"

func TestDefaultOutputName(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"APT1", "apt1_navigator_layer.json"},
		{"Lazarus Group", "lazarus_group_navigator_layer.json"},
		{"Sandworm/Team!", "sandworm_team_navigator_layer.json"},
		{"***", "group_navigator_layer.json"},
	}
	for _, tc := range cases {
		if got := defaultOutputName(tc.query); got != tc.want {
			t.Fatalf("defaultOutputName(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}
