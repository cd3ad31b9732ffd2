package dataset

import (
	"encoding/json"
	"html"
	"strings"

	"attackmap/pkg/models"
)

// Parse decodes a raw STIX bundle into typed collections. Deprecated and
// revoked objects are dropped here so nothing downstream sees them.
func Parse(raw []byte) (*Collections, error) {
	var bundle models.StixBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if bundle.Type != "bundle" {
		return nil, &ParseError{Reason: "not a STIX bundle (type=" + bundle.Type + ")"}
	}

	cols := &Collections{}
	for i := range bundle.Objects {
		obj := &bundle.Objects[i]
		if obj.Deprecated || obj.Revoked {
			continue
		}

		switch obj.Type {
		case "intrusion-set":
			cols.Groups = append(cols.Groups, groupFrom(obj))
		case "attack-pattern":
			cols.Techniques = append(cols.Techniques, techniqueFrom(obj))
		case "x-mitre-tactic":
			cols.Tactics = append(cols.Tactics, &models.Tactic{
				StixID:    obj.ID,
				AttackID:  obj.AttackID(),
				Name:      cleanText(obj.Name),
				ShortName: obj.ShortName,
			})
		case "relationship":
			cols.Relationships = append(cols.Relationships, &models.Relationship{
				SourceRef:   obj.SourceRef,
				TargetRef:   obj.TargetRef,
				Type:        obj.RelationshipType,
				Description: cleanText(obj.Description),
				Created:     obj.Created,
			})
		}
	}

	return cols, nil
}

func groupFrom(obj *models.StixObject) *models.Group {
	aliases := make([]string, 0, len(obj.Aliases))
	for _, alias := range obj.Aliases {
		if v := cleanText(alias); v != "" {
			aliases = append(aliases, v)
		}
	}
	return &models.Group{
		StixID:      obj.ID,
		AttackID:    obj.AttackID(),
		Name:        cleanText(obj.Name),
		Aliases:     aliases,
		Description: cleanText(obj.Description),
		Created:     obj.Created,
		Modified:    obj.Modified,
	}
}

func techniqueFrom(obj *models.StixObject) *models.Technique {
	tactics := make([]string, 0, len(obj.KillChainPhases))
	for _, phase := range obj.KillChainPhases {
		if phase.PhaseName != "" {
			tactics = append(tactics, phase.PhaseName)
		}
	}
	return &models.Technique{
		StixID:       obj.ID,
		AttackID:     obj.AttackID(),
		Name:         cleanText(obj.Name),
		Description:  cleanText(obj.Description),
		Tactics:      tactics,
		Platforms:    obj.Platforms,
		DataSources:  obj.DataSources,
		Detection:    cleanText(obj.Detection),
		SubTechnique: obj.SubTechnique,
	}
}

// cleanText unescapes HTML entities and collapses all whitespace runs to
// single spaces. Bundle descriptions embed markdown with hard newlines.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(text)), " ")
}
