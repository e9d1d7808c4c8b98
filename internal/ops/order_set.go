package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

// SetOrderInput contains parameters for the SetOrder operation.
type SetOrderInput struct {
	ScopeID string // default: canonical scope
	Entries []prompt.OrderEntry
}

// SetOrderOutput contains the result of the SetOrder operation.
type SetOrderOutput struct {
	ScopeID string              `json:"scope_id"`
	Entries []prompt.OrderEntry `json:"entries"`
}

// SetOrder replaces a scope's order list. The sanitize pass prunes
// entries referencing unknown fragments and collapses duplicates, so the
// returned list is the normalized one actually persisted.
func SetOrder(ctx context.Context, database *sql.DB, cfg *config.Config, input SetOrderInput) (*SetOrderOutput, error) {
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}
	for _, entry := range input.Entries {
		if entry.Identifier == "" {
			return nil, errors.NewInvalidRequest("order entries must carry an identifier")
		}
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	eng.Orders().Replace(scopeID, input.Entries)
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &SetOrderOutput{
		ScopeID: scopeID,
		Entries: eng.Orders().Get(scopeID),
	}, nil
}
