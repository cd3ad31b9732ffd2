// Package layer renders a mapping result into a Navigator layer document.
package layer

import (
	"fmt"
	"strings"
	"time"

	"attackmap/internal/coverage"
	"attackmap/pkg/models"
)

// Defaults for the technique annotations. The score is a documented
// constant: Navigator only uses it for color intensity, and a flat value
// renders every attributed technique at full strength.
const (
	DefaultScore        = 100
	DefaultColor        = "#fd8d3c"
	DefaultCoveredColor = "#8ec843"
)

const maxCommentRunes = 200

var fallbackPlatforms = []string{"Windows", "Linux", "macOS"}

// Options tunes the emitted document.
type Options struct {
	Score        int
	Color        string
	CoveredColor string
	Coverage     *coverage.Set // nil disables the coverage overlay
}

// Build constructs a Navigator layer (format 4.5) for one mapped group.
func Build(mapping *models.MappingResult, opts Options) *models.Layer {
	if opts.Score <= 0 {
		opts.Score = DefaultScore
	}
	if opts.Color == "" {
		opts.Color = DefaultColor
	}
	if opts.CoveredColor == "" {
		opts.CoveredColor = DefaultCoveredColor
	}

	group := mapping.Group
	platforms := mapping.Platforms
	if len(platforms) == 0 {
		platforms = fallbackPlatforms
	}

	doc := &models.Layer{
		Name: fmt.Sprintf("%s (%s) - Techniques", group.Name, group.AttackID),
		Versions: models.LayerVersions{
			Attack:    "14",
			Navigator: "4.9.1",
			Layer:     "4.5",
		},
		Domain: "enterprise-attack",
		Description: fmt.Sprintf("Techniques used by %s (%s) based on MITRE ATT&CK data. %s",
			group.Name, group.AttackID, truncate(group.Description)),
		Filters: models.LayerFilters{Platforms: platforms},
		Layout: models.LayerLayout{
			Layout:                "side",
			AggregateFunction:     "average",
			ShowID:                true,
			ShowName:              true,
			ExpandedSubtechniques: "annotated",
		},
		Techniques: make([]models.LayerTechnique, 0, len(mapping.Techniques)),
		Gradient: models.LayerGradient{
			Colors:   []string{"#ff6666", "#ffe766", "#8ec843"},
			MinValue: 0,
			MaxValue: 100,
		},
		LegendItems: []models.LegendItem{
			{Label: fmt.Sprintf("Used by %s", group.Name), Color: opts.Color},
		},
		TacticRowBackground:           "#dddddd",
		SelectTechniquesAcrossTactics: true,
		Metadata: []models.LayerMetadata{
			{Name: "Group", Value: fmt.Sprintf("%s (%s)", group.Name, group.AttackID)},
			{Name: "Aliases", Value: joinOrNone(group.Aliases)},
			{Name: "Total Techniques", Value: fmt.Sprintf("%d", len(mapping.Techniques))},
			{Name: "Generated", Value: time.Now().Format("2006-01-02 15:04:05")},
			{Name: "Data Source", Value: "MITRE ATT&CK Enterprise"},
		},
		Links: []models.LayerLink{
			{
				Label: "MITRE ATT&CK Group Page",
				URL:   fmt.Sprintf("https://attack.mitre.org/groups/%s/", group.AttackID),
			},
		},
	}

	if opts.Coverage != nil {
		doc.LegendItems = append(doc.LegendItems, models.LegendItem{
			Label: "Covered by local Sigma rules",
			Color: opts.CoveredColor,
		})
	}

	for _, tech := range mapping.Techniques {
		doc.Techniques = append(doc.Techniques, techniqueEntry(mapping, tech, opts))
	}
	return doc
}

func techniqueEntry(mapping *models.MappingResult, tech *models.Technique, opts Options) models.LayerTechnique {
	primaryTactic := "execution"
	if len(tech.Tactics) > 0 {
		primaryTactic = tech.Tactics[0]
	}

	comment := fmt.Sprintf("Used by %s.", mapping.Group.Name)
	if note := mapping.Notes[tech.AttackID]; note != "" {
		comment = fmt.Sprintf("Used by %s. %s", mapping.Group.Name, truncate(note))
	}

	entry := models.LayerTechnique{
		TechniqueID: tech.AttackID,
		Tactic:      primaryTactic,
		Score:       opts.Score,
		Color:       opts.Color,
		Comment:     comment,
		Enabled:     true,
		Metadata: []models.LayerMetadata{
			{Name: "Technique", Value: tech.Name},
			{Name: "Tactics", Value: joinOrNotSpecified(tech.Tactics)},
			{Name: "Platforms", Value: joinOrNotSpecified(tech.Platforms)},
			{Name: "Sub-technique", Value: yesNo(tech.SubTechnique)},
		},
		Links: []models.LayerLink{
			{
				Label: "MITRE ATT&CK Technique Page",
				URL:   fmt.Sprintf("https://attack.mitre.org/techniques/%s/", strings.ReplaceAll(tech.AttackID, ".", "/")),
			},
		},
		ShowSubtechniques: !tech.SubTechnique,
	}

	if opts.Coverage != nil {
		if n := opts.Coverage.RulesFor(tech.AttackID); n > 0 {
			entry.Color = opts.CoveredColor
			entry.Metadata = append(entry.Metadata, models.LayerMetadata{
				Name:  "Sigma Rules",
				Value: fmt.Sprintf("%d", n),
			})
		}
	}
	return entry
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxCommentRunes {
		return text
	}
	return string(runes[:maxCommentRunes]) + "..."
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func joinOrNotSpecified(values []string) string {
	if len(values) == 0 {
		return "Not specified"
	}
	return strings.Join(values, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
