package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
)

// DeletePresetInput contains parameters for the DeletePreset operation.
type DeletePresetInput struct {
	Name string
}

// DeletePresetOutput contains the result of the DeletePreset operation.
type DeletePresetOutput struct {
	Deleted bool   `json:"deleted"`
	Name    string `json:"name"`
}

// DeletePreset removes a stored preset. Remaining presets are compacted
// so their indices stay dense.
func DeletePreset(ctx context.Context, database *sql.DB, cfg *config.Config, input DeletePresetInput) (*DeletePresetOutput, error) {
	name := strings.TrimSpace(input.Name)

	manager, err := loadManager(database)
	if err != nil {
		return nil, err
	}
	if err := manager.Delete(name); err != nil {
		return nil, err
	}

	if err := db.DeletePreset(database, name); err != nil {
		return nil, err
	}

	return &DeletePresetOutput{
		Deleted: true,
		Name:    name,
	}, nil
}
