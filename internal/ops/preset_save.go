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

// SavePresetInput contains parameters for the SavePreset operation.
type SavePresetInput struct {
	Name string
}

// SavePresetOutput contains the result of the SavePreset operation.
type SavePresetOutput struct {
	Name      string `json:"name"`
	Fragments int    `json:"fragments"`
}

// SavePreset filters the live settings through the persistence deny-list
// and stores the resulting bundle under the given name, together with the
// current fragment set and canonical order.
func SavePreset(ctx context.Context, database *sql.DB, cfg *config.Config, input SavePresetInput) (*SavePresetOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("preset name is required")
	}

	live, err := loadSettings(database)
	if err != nil {
		return nil, err
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}
	live.Prompts = eng.Prompts().All()
	live.PromptOrder = eng.Orders().Get(prompt.CanonicalScope)

	bundle := preset.FilterForPersistence(live)

	// Manager enforces the reserved-name policy before anything is written.
	manager, err := loadManager(database)
	if err != nil {
		return nil, err
	}
	if err := manager.Save(name, bundle); err != nil {
		return nil, err
	}

	if err := db.SavePreset(database, name, bundle); err != nil {
		return nil, err
	}

	return &SavePresetOutput{
		Name:      name,
		Fragments: len(bundle.Prompts),
	}, nil
}
