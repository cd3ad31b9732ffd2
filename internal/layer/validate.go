package layer

import (
	"encoding/json"
	"fmt"
)

// ValidationError reports a layer document failing the structural check.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "layer validation failed: " + e.Reason
}

var requiredKeys = []string{"name", "versions", "domain", "techniques"}

// Validate checks the serialized document for the minimal structure the
// Navigator needs: required top-level keys, and a non-empty techniqueID
// plus score and color on every technique entry. It operates on bytes so
// the check covers exactly what lands on disk.
func Validate(raw []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("document is not valid JSON: %v", err)}
	}

	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("missing required key %q", key)}
		}
	}

	techniques, ok := doc["techniques"].([]interface{})
	if !ok {
		return &ValidationError{Reason: "techniques is not an array"}
	}
	for i, item := range techniques {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return &ValidationError{Reason: fmt.Sprintf("technique entry %d is not an object", i)}
		}
		id, _ := entry["techniqueID"].(string)
		if id == "" {
			return &ValidationError{Reason: fmt.Sprintf("technique entry %d has no techniqueID", i)}
		}
		if _, ok := entry["score"]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("technique %s has no score", id)}
		}
		color, _ := entry["color"].(string)
		if color == "" {
			return &ValidationError{Reason: fmt.Sprintf("technique %s has no color", id)}
		}
	}
	return nil
}
