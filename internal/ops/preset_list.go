package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
)

// ListPresetsInput contains parameters for the ListPresets operation.
type ListPresetsInput struct{}

// ListPresetsOutput contains the result of the ListPresets operation.
type ListPresetsOutput struct {
	Names []string       `json:"names"`
	Index map[string]int `json:"index"`
	Total int            `json:"total"`
}

// ListPresets returns stored preset names in stable order plus the dense
// name-to-index map select menus key on.
func ListPresets(ctx context.Context, database *sql.DB, cfg *config.Config, input ListPresetsInput) (*ListPresetsOutput, error) {
	manager, err := loadManager(database)
	if err != nil {
		return nil, err
	}

	return &ListPresetsOutput{
		Names: manager.Names(),
		Index: manager.Index(),
		Total: manager.Len(),
	}, nil
}
