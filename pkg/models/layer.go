package models

// Layer is a Navigator layer document (format 4.5).
type Layer struct {
	Name                           string           `json:"name"`
	Versions                       LayerVersions    `json:"versions"`
	Domain                         string           `json:"domain"`
	Description                    string           `json:"description"`
	Filters                        LayerFilters     `json:"filters"`
	Sorting                        int              `json:"sorting"`
	Layout                         LayerLayout      `json:"layout"`
	HideDisabled                   bool             `json:"hideDisabled"`
	Techniques                     []LayerTechnique `json:"techniques"`
	Gradient                       LayerGradient    `json:"gradient"`
	LegendItems                    []LegendItem     `json:"legendItems"`
	ShowTacticRowBackground        bool             `json:"showTacticRowBackground"`
	TacticRowBackground            string           `json:"tacticRowBackground"`
	SelectTechniquesAcrossTactics  bool             `json:"selectTechniquesAcrossTactics"`
	SelectSubtechniquesWithParent  bool             `json:"selectSubtechniquesWithParent"`
	Metadata                       []LayerMetadata  `json:"metadata"`
	Links                          []LayerLink      `json:"links"`
}

// LayerVersions pins the schema versions the document targets.
type LayerVersions struct {
	Attack    string `json:"attack"`
	Navigator string `json:"navigator"`
	Layer     string `json:"layer"`
}

// LayerFilters restricts the matrix view.
type LayerFilters struct {
	Platforms []string `json:"platforms"`
}

// LayerLayout controls how Navigator renders the matrix.
type LayerLayout struct {
	Layout                string `json:"layout"`
	AggregateFunction     string `json:"aggregateFunction"`
	ShowID                bool   `json:"showID"`
	ShowName              bool   `json:"showName"`
	ShowAggregateScores   bool   `json:"showAggregateScores"`
	CountUnscored         bool   `json:"countUnscored"`
	ExpandedSubtechniques string `json:"expandedSubtechniques"`
}

// LayerTechnique is one scored technique entry.
type LayerTechnique struct {
	TechniqueID       string          `json:"techniqueID"`
	Tactic            string          `json:"tactic,omitempty"`
	Score             int             `json:"score"`
	Color             string          `json:"color"`
	Comment           string          `json:"comment,omitempty"`
	Enabled           bool            `json:"enabled"`
	Metadata          []LayerMetadata `json:"metadata,omitempty"`
	Links             []LayerLink     `json:"links,omitempty"`
	ShowSubtechniques bool            `json:"showSubtechniques,omitempty"`
}

// LayerGradient maps scores to colors.
type LayerGradient struct {
	Colors   []string `json:"colors"`
	MinValue int      `json:"minValue"`
	MaxValue int      `json:"maxValue"`
}

// LegendItem is one legend row.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// LayerMetadata is a name/value annotation.
type LayerMetadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LayerLink is a labeled URL.
type LayerLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
