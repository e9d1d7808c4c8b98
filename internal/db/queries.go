package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/preset"
	"github.com/hpungsan/loom/internal/prompt"
	"github.com/oklog/ulid/v2"
)

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// LoadFragments returns all stored prompt fragments in position order.
func LoadFragments(database *sql.DB) ([]prompt.Prompt, error) {
	rows, err := database.Query(`SELECT data_json FROM fragments ORDER BY pos`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var prompts []prompt.Prompt
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.NewInternal(err)
		}
		var p prompt.Prompt
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, errors.NewInternal(err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return prompts, nil
}

// SaveFragments replaces the stored fragment set with the given list,
// preserving its order as position. Runs in a single transaction so
// readers never observe a partial replacement.
func SaveFragments(database *sql.DB, prompts []prompt.Prompt) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fragments`); err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT INTO fragments (identifier, data_json, pos, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for i, p := range prompts {
		data, err := json.Marshal(p)
		if err != nil {
			return errors.NewInternal(err)
		}
		if _, err := stmt.Exec(p.Identifier, string(data), i, now); err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadScopeOrders returns every stored scope order keyed by scope id.
func LoadScopeOrders(database *sql.DB) (map[string][]prompt.OrderEntry, error) {
	rows, err := database.Query(`SELECT scope_id, entries_json FROM scope_orders`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	orders := make(map[string][]prompt.OrderEntry)
	for rows.Next() {
		var scopeID, data string
		if err := rows.Scan(&scopeID, &data); err != nil {
			return nil, errors.NewInternal(err)
		}
		var entries []prompt.OrderEntry
		if err := json.Unmarshal([]byte(data), &entries); err != nil {
			return nil, errors.NewInternal(err)
		}
		orders[scopeID] = entries
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return orders, nil
}

// SaveScopeOrders replaces all stored scope orders in one transaction.
func SaveScopeOrders(database *sql.DB, orders map[string][]prompt.OrderEntry) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM scope_orders`); err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT INTO scope_orders (scope_id, entries_json, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for scopeID, entries := range orders {
		data, err := json.Marshal(entries)
		if err != nil {
			return errors.NewInternal(err)
		}
		if _, err := stmt.Exec(scopeID, string(data), now); err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadPresets returns all stored presets in position order.
func LoadPresets(database *sql.DB) ([]preset.Named, error) {
	rows, err := database.Query(`SELECT name, bundle_json FROM presets ORDER BY pos`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var presets []preset.Named
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, errors.NewInternal(err)
		}
		var b preset.Bundle
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return nil, errors.NewInternal(err)
		}
		presets = append(presets, preset.Named{Name: name, Bundle: b})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return presets, nil
}

// SavePreset inserts or replaces the named preset's bundle. New presets
// get a ULID row id and append at the end of the position order; existing
// presets keep their position.
func SavePreset(database *sql.DB, name string, b preset.Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	result, err := database.Exec(
		`UPDATE presets SET bundle_json = ?, updated_at = ? WHERE name = ?`,
		string(data), now, name,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var pos int
	if err := database.QueryRow(`SELECT COUNT(*) FROM presets`).Scan(&pos); err != nil {
		return errors.NewInternal(err)
	}

	id := ulid.Make().String()
	_, err = database.Exec(
		`INSERT INTO presets (id, name, bundle_json, pos, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, string(data), pos, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewNameExists(name)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// RenamePreset changes a stored preset's name, keeping its position.
func RenamePreset(database *sql.DB, oldName, newName string) error {
	now := time.Now().Unix()
	result, err := database.Exec(
		`UPDATE presets SET name = ?, updated_at = ? WHERE name = ?`,
		newName, now, oldName,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewNameExists(newName)
		}
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(oldName)
	}
	return nil
}

// DeletePreset removes the named preset and compacts positions so they
// stay dense.
func DeletePreset(database *sql.DB, name string) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	var pos int
	err = tx.QueryRow(`SELECT pos FROM presets WHERE name = ?`, name).Scan(&pos)
	if err == sql.ErrNoRows {
		return errors.NewNotFound(name)
	}
	if err != nil {
		return errors.NewInternal(err)
	}

	if _, err := tx.Exec(`DELETE FROM presets WHERE name = ?`, name); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.Exec(`UPDATE presets SET pos = pos - 1 WHERE pos > ?`, pos); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadSettings returns the persisted live settings row. The second return
// reports whether a row exists yet.
func LoadSettings(database *sql.DB) (preset.Settings, bool, error) {
	var data string
	err := database.QueryRow(`SELECT data_json FROM settings WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return preset.Settings{}, false, nil
	}
	if err != nil {
		return preset.Settings{}, false, errors.NewInternal(err)
	}

	var s preset.Settings
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return preset.Settings{}, false, errors.NewInternal(err)
	}
	return s, true, nil
}

// SaveSettings upserts the single live settings row.
func SaveSettings(database *sql.DB, s preset.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	_, err = database.Exec(
		`INSERT INTO settings (id, data_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data_json = excluded.data_json, updated_at = excluded.updated_at`,
		string(data), now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
