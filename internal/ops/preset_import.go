package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/preset"
)

// ImportPresetInput contains parameters for the ImportPreset operation.
type ImportPresetInput struct {
	Name string
	Data []byte // flat preset JSON, possibly externally authored
}

// ImportPresetOutput contains the result of the ImportPreset operation.
type ImportPresetOutput struct {
	Name         string   `json:"name"`
	StrippedKeys []string `json:"stripped_keys,omitempty"`
}

// ImportPreset decodes an externally authored flat preset file, strips
// every deny-listed session/connection key, and stores the remainder
// under the given name. Validation completes before anything is written.
func ImportPreset(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportPresetInput) (*ImportPresetOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("preset name is required")
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(input.Data, &flat); err != nil {
		return nil, errors.NewMalformedImport(fmt.Sprintf("invalid JSON: %v", err))
	}

	var stripped []string
	for _, key := range preset.DeniedKeys {
		if _, ok := flat[key]; ok {
			delete(flat, key)
			stripped = append(stripped, key)
		}
	}
	sort.Strings(stripped)

	cleaned, err := json.Marshal(flat)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	var bundle preset.Bundle
	if err := json.Unmarshal(cleaned, &bundle); err != nil {
		return nil, errors.NewMalformedImport(fmt.Sprintf("preset body does not decode: %v", err))
	}
	for i, p := range bundle.Prompts {
		if p.Identifier == "" {
			return nil, errors.NewMalformedImport(fmt.Sprintf("prompt at index %d has no identifier", i))
		}
	}

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

	return &ImportPresetOutput{
		Name:         name,
		StrippedKeys: stripped,
	}, nil
}
