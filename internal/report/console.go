// Package report prints the human-readable console output. None of this is
// machine-parseable and none of it carries a stability contract.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"attackmap/internal/coverage"
	"attackmap/internal/resolver"
	"attackmap/pkg/models"
)

var (
	header   = color.New(color.FgMagenta, color.Bold)
	info     = color.New(color.FgCyan)
	success  = color.New(color.FgGreen)
	warning  = color.New(color.FgYellow)
	errColor = color.New(color.FgRed)
	idColor  = color.New(color.FgBlue)
	tactic   = color.New(color.FgHiGreen)
	bold     = color.New(color.Bold)
)

// Console writes the report to one output stream.
type Console struct {
	out io.Writer
}

// NewConsole creates a console report writer.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Banner prints the tool banner.
func (c *Console) Banner() {
	rule := strings.Repeat("=", 80)
	header.Fprintln(c.out, rule)
	header.Fprintln(c.out, "MITRE ATT&CK APT Group Mapping Tool - Navigator Compatible")
	header.Fprintln(c.out, rule)
	info.Fprintln(c.out, "Purpose: Map APT groups to MITRE ATT&CK techniques")
	info.Fprintln(c.out, "Output: Navigator-compatible JSON layer files")
	fmt.Fprintln(c.out)
}

// UsageGuide prints interactive-mode hints.
func (c *Console) UsageGuide() {
	header.Fprintln(c.out, "USAGE GUIDE")
	info.Fprintln(c.out, "Enter an APT group name, MITRE ID, or alias to analyze.")
	warning.Fprintln(c.out, "Examples: G0006, APT1, Lazarus Group, Comment Crew")
	warning.Fprintln(c.out, "Tip: run with -list-groups to see all available groups")
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
}

// Analysis prints the group profile and attack statistics for one mapping.
func (c *Console) Analysis(mapping *models.MappingResult, cov *coverage.Set) {
	g := mapping.Group

	fmt.Fprintln(c.out)
	header.Fprintln(c.out, "GROUP ANALYSIS RESULTS")
	fmt.Fprintln(c.out, strings.Repeat("=", 60))

	header.Fprintln(c.out, "Group Profile:")
	fmt.Fprintf(c.out, "  %s %s\n", bold.Sprint("Name:"), g.Name)
	fmt.Fprintf(c.out, "  %s %s\n", bold.Sprint("MITRE ID:"), idColor.Sprint(g.AttackID))
	fmt.Fprintf(c.out, "  %s %s\n", bold.Sprint("Aliases:"), joinOrNone(g.Aliases))
	fmt.Fprintf(c.out, "  %s %s\n", bold.Sprint("First Seen:"), datePrefix(g.Created))
	fmt.Fprintf(c.out, "  %s %s\n", bold.Sprint("Last Updated:"), datePrefix(g.Modified))

	fmt.Fprintln(c.out)
	header.Fprintln(c.out, "Attack Statistics:")
	fmt.Fprintf(c.out, "  %s %s\n", success.Sprint("Total Techniques:"), bold.Sprintf("%d", len(mapping.Techniques)))
	fmt.Fprintf(c.out, "  %s %s\n", tactic.Sprint("Tactics Covered:"), bold.Sprintf("%d", len(mapping.TacticCounts)))
	fmt.Fprintf(c.out, "  %s %s\n", info.Sprint("Platforms Targeted:"), bold.Sprintf("%d", len(mapping.Platforms)))
	fmt.Fprintf(c.out, "  %s %s\n", warning.Sprint("Data Sources:"), bold.Sprintf("%d", len(mapping.DataSources)))

	fmt.Fprintln(c.out)
	header.Fprintln(c.out, "Tactics Used:")
	for _, name := range mapping.TacticNames() {
		fmt.Fprintf(c.out, "  %s: %d techniques\n", tactic.Sprint(titleCase(name)), mapping.TacticCounts[name])
	}

	fmt.Fprintln(c.out)
	header.Fprintln(c.out, "Target Platforms:")
	for _, platform := range mapping.Platforms {
		fmt.Fprintf(c.out, "  %s\n", info.Sprint(platform))
	}

	if cov != nil {
		covered := 0
		for _, tech := range mapping.Techniques {
			if cov.Covered(tech.AttackID) {
				covered++
			}
		}
		fmt.Fprintln(c.out)
		header.Fprintln(c.out, "Detection Coverage:")
		fmt.Fprintf(c.out, "  %s %d of %d mapped techniques covered by local Sigma rules\n",
			success.Sprint("Covered:"), covered, len(mapping.Techniques))
	}

	fmt.Fprintln(c.out, strings.Repeat("=", 60))
}

// ListGroups prints all known groups ordered by ATT&CK id.
func (c *Console) ListGroups(groups []*models.Group) {
	fmt.Fprintln(c.out)
	header.Fprintf(c.out, "Available APT Groups in MITRE ATT&CK (%d total)\n", len(groups))
	fmt.Fprintln(c.out, strings.Repeat("=", 90))
	bold.Fprintf(c.out, "%-10s %-35s %s\n", "ID", "Name", "Aliases")
	fmt.Fprintln(c.out, strings.Repeat("-", 90))

	for _, g := range groups {
		aliases := g.Aliases
		suffix := ""
		if len(aliases) > 3 {
			suffix = fmt.Sprintf(" (+%d more)", len(aliases)-3)
			aliases = aliases[:3]
		}
		fmt.Fprintf(c.out, "%s %s %s\n",
			idColor.Sprintf("%-10s", g.AttackID),
			bold.Sprintf("%-35s", g.Name),
			info.Sprint(strings.Join(aliases, ", ")+suffix))
	}
}

// NotFound prints the failure and its suggestions.
func (c *Console) NotFound(err *resolver.NotFoundError) {
	errColor.Fprintf(c.out, "APT group %q not found in MITRE ATT&CK data\n", err.Query)
	if len(err.Suggestions) == 0 {
		return
	}
	warning.Fprintln(c.out, "Did you mean one of these?")
	for _, s := range err.Suggestions {
		line := fmt.Sprintf("%s - %s", s.AttackID, s.Name)
		if s.Alias != "" {
			line += fmt.Sprintf(" (alias: %s)", s.Alias)
		}
		fmt.Fprintf(c.out, "  %s\n", info.Sprint(line))
	}
}

// Success prints the final output location.
func (c *Console) Success(path string) {
	success.Fprintf(c.out, "Navigator layer saved to: %s\n", path)
	info.Fprintln(c.out, "Import this file into MITRE ATT&CK Navigator")
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func datePrefix(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "Unknown"
	}
	return ts
}

func titleCase(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
