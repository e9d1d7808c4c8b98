package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/prompt"
)

// ShowOrderInput contains parameters for the ShowOrder operation.
type ShowOrderInput struct {
	ScopeID string // default: canonical scope
}

// OrderRow is a single order entry joined with its fragment's display
// fields.
type OrderRow struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
	Enabled    bool   `json:"enabled"`
	Marker     bool   `json:"marker,omitempty"`
	System     bool   `json:"system_prompt,omitempty"`
}

// ShowOrderOutput contains the result of the ShowOrder operation.
type ShowOrderOutput struct {
	ScopeID string     `json:"scope_id"`
	Rows    []OrderRow `json:"rows"`
}

// ShowOrder returns a scope's order list joined with fragment metadata.
func ShowOrder(ctx context.Context, database *sql.DB, cfg *config.Config, input ShowOrderInput) (*ShowOrderOutput, error) {
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	entries := eng.Orders().Get(scopeID)
	rows := make([]OrderRow, 0, len(entries))
	for _, entry := range entries {
		row := OrderRow{Identifier: entry.Identifier, Enabled: entry.Enabled}
		if p, ok := eng.Prompts().Get(entry.Identifier); ok {
			row.Name = p.Name
			row.Marker = p.Marker
			row.System = p.SystemPrompt
		}
		rows = append(rows, row)
	}

	return &ShowOrderOutput{
		ScopeID: scopeID,
		Rows:    rows,
	}, nil
}
