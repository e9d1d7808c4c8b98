package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/prompt"
)

// ResetOrderInput contains parameters for the ResetOrder operation.
type ResetOrderInput struct {
	ScopeID string // default: canonical scope
}

// ResetOrderOutput contains the result of the ResetOrder operation.
type ResetOrderOutput struct {
	ScopeID string              `json:"scope_id"`
	Entries []prompt.OrderEntry `json:"entries"`
}

// ResetOrder drops a scope's order list. For the canonical scope the
// sanitize pass immediately re-seeds the hard-coded default order; other
// scopes simply lose their list and fall back to canonical behavior.
func ResetOrder(ctx context.Context, database *sql.DB, cfg *config.Config, input ResetOrderInput) (*ResetOrderOutput, error) {
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	eng.Orders().Remove(scopeID)
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &ResetOrderOutput{
		ScopeID: scopeID,
		Entries: eng.Orders().Get(scopeID),
	}, nil
}
