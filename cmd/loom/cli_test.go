package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
	"github.com/hpungsan/loom/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.UserName = "Alice"
	cfg.CharName = "Bob"
	return cfg
}

// runApp runs the CLI app with the given args and captures stdout.
func runApp(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"loom"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestParseCSV tests the parseCSV helper function.
func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "normal",
			expected: []string{"normal"},
		},
		{
			name:     "multiple values",
			input:    "normal,continue,swipe",
			expected: []string{"normal", "continue", "swipe"},
		},
		{
			name:     "values with spaces",
			input:    " normal , continue ",
			expected: []string{"normal", "continue"},
		},
		{
			name:     "empty entries filtered",
			input:    "normal,,continue,",
			expected: []string{"normal", "continue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCSV(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d values, got %d", len(tt.expected), len(result))
				return
			}
			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("expected [%d]=%q, got %q", i, tt.expected[i], v)
				}
			}
		})
	}
}

// TestCLICompose tests the compose command.
func TestCLICompose(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	out, err := runApp(t, app, "compose")
	if err != nil {
		t.Fatalf("compose command failed: %v", err)
	}

	var output ops.ComposeOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.ScopeID != "global" {
		t.Errorf("expected scope_id=global, got %s", output.ScopeID)
	}
	if output.Count == 0 {
		t.Error("expected at least one composed message")
	}
}

// TestCLIFragments tests the fragments subcommands.
func TestCLIFragments(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	t.Run("upsert", func(t *testing.T) {
		out, err := runApp(t, app, "fragments", "upsert",
			"--name=Lore", "--content=Ancient history.", "--role=system", "lore")
		if err != nil {
			t.Fatalf("upsert command failed: %v", err)
		}

		var output ops.UpsertFragmentOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Identifier != "lore" {
			t.Errorf("expected identifier=lore, got %s", output.Identifier)
		}
		if !output.Created {
			t.Error("expected created=true")
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := runApp(t, app, "fragments", "list")
		if err != nil {
			t.Fatalf("list command failed: %v", err)
		}

		var output ops.ListFragmentsOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		found := false
		for _, f := range output.Fragments {
			if f.Identifier == "lore" {
				found = true
			}
		}
		if !found {
			t.Error("expected lore fragment in list output")
		}
	})

	t.Run("toggle off", func(t *testing.T) {
		out, err := runApp(t, app, "fragments", "toggle", "--off", "lore")
		if err != nil {
			t.Fatalf("toggle command failed: %v", err)
		}

		var output ops.ToggleFragmentOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Enabled {
			t.Error("expected enabled=false after --off")
		}
	})

	t.Run("delete", func(t *testing.T) {
		out, err := runApp(t, app, "fragments", "delete", "lore")
		if err != nil {
			t.Fatalf("delete command failed: %v", err)
		}

		var output ops.DeleteFragmentOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if !output.Deleted {
			t.Error("expected deleted=true")
		}
	})
}

// TestCLIOrder tests the order subcommands.
func TestCLIOrder(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	t.Run("show", func(t *testing.T) {
		out, err := runApp(t, app, "order", "show")
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.ShowOrderOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Rows) == 0 {
			t.Error("expected default order rows")
		}
	})

	t.Run("set from args", func(t *testing.T) {
		out, err := runApp(t, app, "order", "set", "main", "chatHistory")
		if err != nil {
			t.Fatalf("set command failed: %v", err)
		}

		var output ops.SetOrderOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Entries) != 2 {
			t.Errorf("expected 2 entries, got %d", len(output.Entries))
		}
	})

	t.Run("reset", func(t *testing.T) {
		out, err := runApp(t, app, "order", "reset")
		if err != nil {
			t.Fatalf("reset command failed: %v", err)
		}

		var output ops.ResetOrderOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Entries) <= 2 {
			t.Errorf("expected reseeded default order, got %d entries", len(output.Entries))
		}
	})
}

// TestCLIExportImport tests the export and import commands.
func TestCLIExportImport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	// Seed defaults and add a custom fragment
	_, err := ops.UpsertFragment(context.Background(), database, cfg, ops.UpsertFragmentInput{
		Identifier: "lore",
		Name:       "Lore",
		Content:    "Ancient history.",
	})
	if err != nil {
		t.Fatalf("failed to seed fragment: %v", err)
	}

	app := newCLIApp(database, cfg)
	exportPath := filepath.Join(t.TempDir(), "export.json")

	t.Run("export to file", func(t *testing.T) {
		out, err := runApp(t, app, "export", "--path="+exportPath)
		if err != nil {
			t.Fatalf("export command failed: %v", err)
		}

		var output map[string]any
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output["path"] != exportPath {
			t.Errorf("expected path=%s, got %v", exportPath, output["path"])
		}
		if _, err := os.Stat(exportPath); err != nil {
			t.Errorf("export file missing: %v", err)
		}
	})

	// Import into a fresh database
	database2, cleanup2 := setupTestDB(t)
	defer cleanup2()
	app2 := newCLIApp(database2, cfg)

	t.Run("import from file", func(t *testing.T) {
		out, err := runApp(t, app2, "import", "--path="+exportPath)
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}

		var output ops.ImportOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Imported == 0 {
			t.Error("expected imported fragments")
		}

		listOut, err := ops.ListFragments(context.Background(), database2, cfg, ops.ListFragmentsInput{})
		if err != nil {
			t.Fatalf("failed to list after import: %v", err)
		}
		found := false
		for _, f := range listOut.Fragments {
			if f.Identifier == "lore" {
				found = true
			}
		}
		if !found {
			t.Error("expected lore fragment after import")
		}
	})
}

// TestCLIPreset tests the preset subcommands.
func TestCLIPreset(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	t.Run("save", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "save", "creative")
		if err != nil {
			t.Fatalf("save command failed: %v", err)
		}

		var output ops.SavePresetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Name != "creative" {
			t.Errorf("expected name=creative, got %s", output.Name)
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "list")
		if err != nil {
			t.Fatalf("list command failed: %v", err)
		}

		var output ops.ListPresetsOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Total != 1 || len(output.Names) != 1 {
			t.Errorf("expected one preset, got total=%d names=%d", output.Total, len(output.Names))
		}
	})

	t.Run("rename", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "rename", "creative", "focused")
		if err != nil {
			t.Fatalf("rename command failed: %v", err)
		}

		var output ops.RenamePresetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.NewName != "focused" {
			t.Errorf("expected new_name=focused, got %s", output.NewName)
		}
	})

	t.Run("apply", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "apply", "focused")
		if err != nil {
			t.Fatalf("apply command failed: %v", err)
		}

		var output ops.ApplyPresetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Name != "focused" {
			t.Errorf("expected name=focused, got %s", output.Name)
		}
	})

	t.Run("export", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "export", "focused")
		if err != nil {
			t.Fatalf("export command failed: %v", err)
		}

		var output ops.ExportPresetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Name != "focused" {
			t.Errorf("expected name=focused, got %s", output.Name)
		}
	})

	t.Run("delete", func(t *testing.T) {
		out, err := runApp(t, app, "preset", "delete", "focused")
		if err != nil {
			t.Fatalf("delete command failed: %v", err)
		}

		var output ops.DeletePresetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if !output.Deleted {
			t.Error("expected deleted=true")
		}
	})
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg)

	t.Run("delete missing fragment returns error", func(t *testing.T) {
		_, err := runApp(t, app, "fragments", "delete", "nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("delete without identifier returns error", func(t *testing.T) {
		_, err := runApp(t, app, "fragments", "delete")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("apply missing preset returns error", func(t *testing.T) {
		_, err := runApp(t, app, "preset", "apply", "nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("save reserved preset name returns error", func(t *testing.T) {
		_, err := runApp(t, app, "preset", "save", "Default")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"loom"},
			expected: false,
		},
		{
			name:     "compose command",
			args:     []string{"loom", "compose"},
			expected: true,
		},
		{
			name:     "preset command",
			args:     []string{"loom", "preset"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"loom", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"loom", "--version"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"loom", "-h"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"loom", "-v"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"loom", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"loom"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"loom", "--help"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"loom", "help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"loom", "--version"},
			expected: true,
		},
		{
			name:     "compose command is not help",
			args:     []string{"loom", "compose"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
