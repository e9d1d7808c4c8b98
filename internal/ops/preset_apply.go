package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/preset"
	"github.com/hpungsan/loom/internal/prompt"
)

// ApplyPresetInput contains parameters for the ApplyPreset operation.
type ApplyPresetInput struct {
	Name              string
	OverwriteProvider bool
	Provider          string
}

// ApplyPresetOutput contains the result of the ApplyPreset operation.
type ApplyPresetOutput struct {
	Name      string `json:"name"`
	Reserved  bool   `json:"reserved"`
	Fragments int    `json:"fragments"`
}

// ApplyPreset merges the named bundle over the live settings and syncs
// the engine's fragment and order stores to match. Applying a reserved
// pseudo-preset clears the stores so the sanitize pass repopulates the
// hard-coded defaults.
func ApplyPreset(ctx context.Context, database *sql.DB, cfg *config.Config, input ApplyPresetInput) (*ApplyPresetOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("preset name is required")
	}

	var bundle preset.Bundle
	reserved := preset.IsReservedName(name)
	if !reserved {
		manager, err := loadManager(database)
		if err != nil {
			return nil, err
		}
		b, ok := manager.Get(name)
		if !ok {
			return nil, errors.NewNotFound(name)
		}
		bundle = b
	}

	live, err := loadSettings(database)
	if err != nil {
		return nil, err
	}

	// The engine stores are the source of truth for the live fragment set;
	// settings carry a mirror so the merge rule sees the real state.
	current, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}
	live.Prompts = current.Prompts().All()
	live.PromptOrder = current.Orders().Get(prompt.CanonicalScope)

	merged := preset.Apply(bundle, live, preset.ApplyOptions{
		Reserved:          reserved,
		OverwriteProvider: input.OverwriteProvider,
		Provider:          input.Provider,
	})
	if err := db.SaveSettings(database, merged); err != nil {
		return nil, err
	}

	// Rebuild engine state from the merged settings. An empty fragment set
	// (reserved apply) is re-seeded with defaults by the sanitize pass.
	eng := newEngineFor(cfg)
	eng.Prompts().ReplaceAll(merged.Prompts)
	if merged.PromptOrder != nil {
		eng.Orders().Replace(prompt.CanonicalScope, merged.PromptOrder)
	}
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &ApplyPresetOutput{
		Name:      name,
		Reserved:  reserved,
		Fragments: eng.Prompts().Len(),
	}, nil
}
