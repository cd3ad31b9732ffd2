// Package coverage maps local Sigma detection rules onto ATT&CK techniques
// so the emitted layer can distinguish covered from uncovered techniques.
package coverage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sigma "github.com/bradleyjkemp/sigma-go"
)

var techniqueTagRegex = regexp.MustCompile(`^attack\.(t\d{4}(?:\.\d{3})?)$`)

// Stats tracks the number of loaded and skipped rule files.
type Stats struct {
	TotalFiles      int
	Loaded          int
	SkippedInvalid  int
	SkippedUntagged int
}

// Set holds technique coverage extracted from a Sigma rule tree.
type Set struct {
	rulesByTechnique map[string]int // upper-cased ATT&CK technique id → rule count
}

// LoadRules walks a Sigma rule file or directory and records which ATT&CK
// techniques the rules tag. Invalid or untagged rules are skipped and
// counted, never fatal.
func LoadRules(path string) (*Set, Stats, error) {
	var stats Stats

	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve rule path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, stats, fmt.Errorf("stat rule path: %w", err)
	}

	files := make([]string, 0, 256)
	if info.IsDir() {
		err = filepath.WalkDir(resolved, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			if isYAMLFile(filePath) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, stats, fmt.Errorf("walk rule directory: %w", err)
		}
	} else {
		if !isYAMLFile(resolved) {
			return nil, stats, fmt.Errorf("rule file must end with .yml or .yaml: %s", resolved)
		}
		files = append(files, resolved)
	}

	set := &Set{rulesByTechnique: make(map[string]int, len(files))}
	stats.TotalFiles = len(files)

	for _, ruleFile := range files {
		raw, err := os.ReadFile(ruleFile)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}
		rule, err := sigma.ParseRule(raw)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}

		techniques := techniquesFromTags(rule.Tags)
		if len(techniques) == 0 {
			stats.SkippedUntagged++
			continue
		}
		for _, id := range techniques {
			set.rulesByTechnique[id]++
		}
		stats.Loaded++
	}

	return set, stats, nil
}

// RulesFor returns the number of rules tagging the given technique id.
func (s *Set) RulesFor(attackID string) int {
	if s == nil {
		return 0
	}
	return s.rulesByTechnique[strings.ToUpper(strings.TrimSpace(attackID))]
}

// Covered reports whether at least one rule tags the technique.
func (s *Set) Covered(attackID string) bool {
	return s.RulesFor(attackID) > 0
}

// TechniqueCount returns the number of distinct techniques with coverage.
func (s *Set) TechniqueCount() int {
	if s == nil {
		return 0
	}
	return len(s.rulesByTechnique)
}

func techniquesFromTags(tags []string) []string {
	out := make([]string, 0, 2)
	seen := make(map[string]bool, 2)
	for _, tag := range tags {
		m := techniqueTagRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(tag)))
		if m == nil {
			continue
		}
		id := strings.ToUpper(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func isYAMLFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml")
}
