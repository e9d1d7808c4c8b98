package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
)

// DeleteFragmentInput contains parameters for the DeleteFragment operation.
type DeleteFragmentInput struct {
	Identifier string
}

// DeleteFragmentOutput contains the result of the DeleteFragment operation.
type DeleteFragmentOutput struct {
	Deleted    bool   `json:"deleted"`
	Identifier string `json:"identifier"`
}

// DeleteFragment removes a prompt fragment. Markers and engine-reserved
// fragments are protected. Order entries referencing the removed fragment
// are pruned by the sanitize pass before the state is persisted.
func DeleteFragment(ctx context.Context, database *sql.DB, cfg *config.Config, input DeleteFragmentInput) (*DeleteFragmentOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, errors.NewInvalidRequest("identifier is required")
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	if err := eng.Prompts().Delete(identifier); err != nil {
		return nil, err
	}
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &DeleteFragmentOutput{
		Deleted:    true,
		Identifier: identifier,
	}, nil
}
