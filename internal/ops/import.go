package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/preset"
	"github.com/hpungsan/loom/internal/prompt"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	ScopeID string // default: canonical scope
	Data    []byte // raw envelope JSON
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	ScopeID            string `json:"scope_id"`
	Imported           int    `json:"imported"`
	OrderReplaced      bool   `json:"order_replaced"`
	LegacyOrderIgnored bool   `json:"legacy_order_ignored,omitempty"`
}

// rawEnvelope defers prompt_order decoding so the legacy object shape can
// be detected and skipped instead of failing the whole import.
type rawEnvelope struct {
	Version int `json:"version"`
	Type    string `json:"type"`
	Data    *struct {
		Prompts     []prompt.Prompt `json:"prompts"`
		PromptOrder json.RawMessage `json:"prompt_order"`
	} `json:"data"`
}

// Import merges an exported envelope into the store: fragments union by
// identifier with incoming winning on collision, and the scope's order
// list is replaced when the envelope carries one. Shape validation runs
// before any mutation, so a malformed payload leaves the store untouched.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	scopeID := input.ScopeID
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	var env rawEnvelope
	if err := json.Unmarshal(input.Data, &env); err != nil {
		return nil, errors.NewMalformedImport(fmt.Sprintf("invalid JSON: %v", err))
	}
	if env.Version != EnvelopeVersion {
		return nil, errors.NewMalformedImport(fmt.Sprintf("unsupported envelope version %d", env.Version))
	}
	if env.Type != EnvelopeTypeFull && env.Type != EnvelopeTypeCharacter {
		return nil, errors.NewMalformedImport(fmt.Sprintf("unknown envelope type %q", env.Type))
	}
	if env.Data == nil {
		return nil, errors.NewMalformedImport("envelope is missing its data block")
	}
	for i, p := range env.Data.Prompts {
		if p.Identifier == "" {
			return nil, errors.NewMalformedImport(fmt.Sprintf("prompt at index %d has no identifier", i))
		}
	}

	var (
		order         []prompt.OrderEntry
		orderPresent  bool
		legacyIgnored bool
	)
	if len(env.Data.PromptOrder) > 0 && string(env.Data.PromptOrder) != "null" {
		if err := json.Unmarshal(env.Data.PromptOrder, &order); err != nil {
			// Older exporters wrote prompt_order as an object keyed by
			// character id. Those lists reference foreign scopes; skip them
			// rather than reject the whole file.
			var legacy map[string]json.RawMessage
			if err2 := json.Unmarshal(env.Data.PromptOrder, &legacy); err2 != nil {
				return nil, errors.NewMalformedImport("prompt_order is neither a list nor the legacy object shape")
			}
			legacyIgnored = true
		} else {
			orderPresent = true
		}
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	merged := preset.ImportMergePrompts(eng.Prompts().All(), env.Data.Prompts)
	eng.Prompts().ReplaceAll(merged)
	if orderPresent {
		eng.Orders().Replace(scopeID, order)
	}
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &ImportOutput{
		ScopeID:            scopeID,
		Imported:           len(env.Data.Prompts),
		OrderReplaced:      orderPresent,
		LegacyOrderIgnored: legacyIgnored,
	}, nil
}
