package layer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"attackmap/internal/logger"
	"attackmap/pkg/models"
)

// Marshal serializes the document with stable 2-space indentation.
func Marshal(doc *models.Layer) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layer: %w", err)
	}
	return raw, nil
}

// WriteFile serializes, validates, and writes the document to path as a
// whole-file write. Validation failure aborts before anything is written;
// an interrupted write can still leave an incomplete file, which is an
// accepted risk for a one-shot tool.
func WriteFile(path string, doc *models.Layer) error {
	raw, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := Validate(raw); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write layer file: %w", err)
	}

	logger.Infof("Navigator layer written: %s (%d techniques)", path, len(doc.Techniques))
	return nil
}
