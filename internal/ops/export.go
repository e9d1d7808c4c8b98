package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/prompt"
)

// Envelope versioning for fragment export files.
const (
	EnvelopeVersion = 1

	EnvelopeTypeFull      = "full"
	EnvelopeTypeCharacter = "character"
)

// EnvelopeData is the payload of an export envelope.
type EnvelopeData struct {
	Prompts     []prompt.Prompt     `json:"prompts"`
	PromptOrder []prompt.OrderEntry `json:"prompt_order"`
}

// Envelope is the versioned wrapper for fragment export/import files.
type Envelope struct {
	Version int          `json:"version"`
	Type    string       `json:"type"`
	Data    EnvelopeData `json:"data"`
}

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ScopeID string // default: canonical scope
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Envelope  Envelope `json:"envelope"`
	Fragments int      `json:"fragments"`
}

// Export snapshots the fragment set and the scope's order list into a
// versioned envelope. Markers travel too: an import on another machine
// reconstructs the exact store.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	envType := EnvelopeTypeFull
	if scopeID != prompt.CanonicalScope {
		envType = EnvelopeTypeCharacter
	}

	env := Envelope{
		Version: EnvelopeVersion,
		Type:    envType,
		Data: EnvelopeData{
			Prompts:     eng.Prompts().All(),
			PromptOrder: eng.Orders().Get(scopeID),
		},
	}

	return &ExportOutput{
		Envelope:  env,
		Fragments: len(env.Data.Prompts),
	}, nil
}
