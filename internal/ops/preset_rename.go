package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
)

// RenamePresetInput contains parameters for the RenamePreset operation.
type RenamePresetInput struct {
	OldName string
	NewName string
}

// RenamePresetOutput contains the result of the RenamePreset operation.
type RenamePresetOutput struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// RenamePreset changes a preset's name, keeping its list position.
func RenamePreset(ctx context.Context, database *sql.DB, cfg *config.Config, input RenamePresetInput) (*RenamePresetOutput, error) {
	oldName := strings.TrimSpace(input.OldName)
	newName := strings.TrimSpace(input.NewName)

	// Manager enforces reserved-name, unchanged-name, and collision policy
	// before the row is touched.
	manager, err := loadManager(database)
	if err != nil {
		return nil, err
	}
	if err := manager.Rename(oldName, newName); err != nil {
		return nil, err
	}

	if err := db.RenamePreset(database, oldName, newName); err != nil {
		return nil, err
	}

	return &RenamePresetOutput{
		OldName: oldName,
		NewName: newName,
	}, nil
}
