package models

// StixBundle is the raw ATT&CK bundle envelope.
type StixBundle struct {
	Type    string       `json:"type"`
	ID      string       `json:"id"`
	Objects []StixObject `json:"objects"`
}

// StixObject is one bundle object. Fields cover the union of the object
// types this tool consumes; the Type discriminator decides which are set.
type StixObject struct {
	Type               string              `json:"type"`
	ID                 string              `json:"id"`
	Name               string              `json:"name,omitempty"`
	Description        string              `json:"description,omitempty"`
	Aliases            []string            `json:"aliases,omitempty"`
	Created            string              `json:"created,omitempty"`
	Modified           string              `json:"modified,omitempty"`
	Revoked            bool                `json:"revoked,omitempty"`
	Deprecated         bool                `json:"x_mitre_deprecated,omitempty"`
	KillChainPhases    []KillChainPhase    `json:"kill_chain_phases,omitempty"`
	Platforms          []string            `json:"x_mitre_platforms,omitempty"`
	DataSources        []string            `json:"x_mitre_data_sources,omitempty"`
	Detection          string              `json:"x_mitre_detection,omitempty"`
	ShortName          string              `json:"x_mitre_shortname,omitempty"`
	SubTechnique       bool                `json:"x_mitre_is_subtechnique,omitempty"`
	ExternalReferences []ExternalReference `json:"external_references,omitempty"`
	SourceRef          string              `json:"source_ref,omitempty"`
	TargetRef          string              `json:"target_ref,omitempty"`
	RelationshipType   string              `json:"relationship_type,omitempty"`
}

// KillChainPhase ties a technique to a tactic by phase name.
type KillChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

// ExternalReference carries the ATT&CK short identifier for an object.
type ExternalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id,omitempty"`
	URL        string `json:"url,omitempty"`
}

// AttackID returns the mitre-attack external identifier, or "".
func (o *StixObject) AttackID() string {
	for _, ref := range o.ExternalReferences {
		if ref.SourceName == "mitre-attack" {
			return ref.ExternalID
		}
	}
	return ""
}
