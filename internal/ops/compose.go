package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/prompt"
)

// ComposeInput contains parameters for the Compose operation.
type ComposeInput struct {
	ScopeID        string // default: canonical scope
	GenerationType string // default: "normal"
}

// ComposeOutput contains the result of the Compose operation.
type ComposeOutput struct {
	ScopeID        string           `json:"scope_id"`
	GenerationType string           `json:"generation_type"`
	Messages       []prompt.Message `json:"messages"`
	Count          int              `json:"count"`
}

// Compose assembles the ordered, trigger-filtered fragment sequence for a
// scope. Fragments the fallback scan registered into the canonical order
// are persisted as part of the same operation.
func Compose(ctx context.Context, database *sql.DB, cfg *config.Config, input ComposeInput) (*ComposeOutput, error) {
	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	collection := eng.Compose(scopeID, input.GenerationType)

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &ComposeOutput{
		ScopeID:        scopeID,
		GenerationType: string(prompt.NormalizeGenerationType(input.GenerationType)),
		Messages:       collection.Messages,
		Count:          len(collection.Messages),
	}, nil
}
