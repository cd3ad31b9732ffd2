// Package dataset obtains and parses the ATT&CK Enterprise bundle.
package dataset

import (
	"context"

	"attackmap/internal/logger"
	"attackmap/pkg/models"
)

// Collections holds the typed entity collections parsed from one bundle.
// Deprecated and revoked objects are already excluded.
type Collections struct {
	Groups        []*models.Group
	Techniques    []*models.Technique
	Tactics       []*models.Tactic
	Relationships []*models.Relationship
}

// Load fetches the raw bundle from the source and parses it.
func Load(ctx context.Context, src Source) (*Collections, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	cols, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	logger.Infof("Dataset loaded: groups=%d techniques=%d tactics=%d relationships=%d",
		len(cols.Groups), len(cols.Techniques), len(cols.Tactics), len(cols.Relationships))
	return cols, nil
}
