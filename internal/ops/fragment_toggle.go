package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

// ToggleFragmentInput contains parameters for the ToggleFragment operation.
type ToggleFragmentInput struct {
	ScopeID    string // default: canonical scope
	Identifier string
	Enabled    *bool // nil: flip the current flag
}

// ToggleFragmentOutput contains the result of the ToggleFragment operation.
type ToggleFragmentOutput struct {
	Identifier string `json:"identifier"`
	ScopeID    string `json:"scope_id"`
	Enabled    bool   `json:"enabled"`
}

// ToggleFragment flips or sets the enabled flag of a fragment's order
// entry in the given scope. Markers cannot be toggled.
func ToggleFragment(ctx context.Context, database *sql.DB, cfg *config.Config, input ToggleFragmentInput) (*ToggleFragmentOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, errors.NewInvalidRequest("identifier is required")
	}
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	p, ok := eng.Prompts().Get(identifier)
	if !ok {
		return nil, errors.NewNotFound(identifier)
	}
	if !prompt.IsToggleAllowed(p) {
		return nil, errors.NewProtectedPrompt(identifier, "toggled")
	}

	entry, ok := eng.Orders().FindEntry(scopeID, identifier)
	if !ok {
		return nil, errors.NewNotFound(identifier)
	}

	enabled := !entry.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	eng.Orders().SetEnabled(scopeID, identifier, enabled)

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &ToggleFragmentOutput{
		Identifier: identifier,
		ScopeID:    scopeID,
		Enabled:    enabled,
	}, nil
}
