package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/engine"
	"github.com/hpungsan/loom/internal/prompt"
)

// TokensInput contains parameters for the Tokens operation.
type TokensInput struct {
	ScopeID        string // default: canonical scope
	GenerationType string // default: "normal"
}

// TokensOutput contains the result of the Tokens operation.
type TokensOutput struct {
	ScopeID  string           `json:"scope_id"`
	Counter  string           `json:"counter"`
	Counts   map[string]int   `json:"counts"`
	Total    int              `json:"total"`
	Messages []prompt.Message `json:"messages"`
}

// Tokens composes the scope's sequence and recomputes per-fragment token
// counts with the configured counter. Remote counting failures degrade to
// the character-weighted estimate; the operation itself never fails on a
// counting error.
func Tokens(ctx context.Context, database *sql.DB, cfg *config.Config, input TokensInput) (*TokensOutput, error) {
	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	collection := eng.Compose(scopeID, input.GenerationType)

	counter := buildCounter(cfg)
	counterName := config.CounterHeuristic
	if counter != nil {
		counterName = config.CounterAnthropic
	}

	accountant := engine.NewAccountant(counter)
	counts, total := accountant.Recompute(ctx, collection)

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &TokensOutput{
		ScopeID:  scopeID,
		Counter:  counterName,
		Counts:   counts,
		Total:    total,
		Messages: collection.Messages,
	}, nil
}
