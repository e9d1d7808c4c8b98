package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/preset"
)

// ExportPresetInput contains parameters for the ExportPreset operation.
type ExportPresetInput struct {
	Name string
}

// ExportPresetOutput contains the result of the ExportPreset operation.
type ExportPresetOutput struct {
	Name   string        `json:"name"`
	Bundle preset.Bundle `json:"bundle"`
}

// ExportPreset returns the named bundle as a flat preset document. The
// reserved pseudo-presets denote live settings and are never exported.
func ExportPreset(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportPresetInput) (*ExportPresetOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("preset name is required")
	}
	if preset.IsReservedName(name) {
		return nil, errors.NewProtectedPreset(name, "exported")
	}

	manager, err := loadManager(database)
	if err != nil {
		return nil, err
	}
	bundle, ok := manager.Get(name)
	if !ok {
		return nil, errors.NewNotFound(name)
	}

	return &ExportPresetOutput{
		Name:   name,
		Bundle: bundle,
	}, nil
}
