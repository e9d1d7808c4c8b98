package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/ops"
	"github.com/hpungsan/loom/internal/prompt"
	"github.com/hpungsan/loom/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "loom",
		Usage:   "Prompt composition engine",
		Version: Version,
		Commands: []*cli.Command{
			composeCmd(db, cfg),
			tokensCmd(db, cfg),
			fragmentsCmd(db, cfg),
			orderCmd(db, cfg),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			presetCmd(db, cfg),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// composeCmd creates the compose command.
func composeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "Assemble the ordered message sequence for a scope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Generation type: normal|continue|impersonate|swipe|regenerate|quiet"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Compose(c.Context, db, cfg, ops.ComposeInput{
				ScopeID:        c.String("scope"),
				GenerationType: c.String("type"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// tokensCmd creates the tokens command.
func tokensCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "tokens",
		Usage: "Compose a scope and report per-message token counts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Generation type"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Tokens(c.Context, db, cfg, ops.TokensInput{
				ScopeID:        c.String("scope"),
				GenerationType: c.String("type"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// fragmentsCmd creates the fragments command group.
func fragmentsCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "fragments",
		Usage: "Manage prompt fragments",
		Subcommands: []*cli.Command{
			fragmentsListCmd(db, cfg),
			fragmentsUpsertCmd(db, cfg),
			fragmentsDeleteCmd(db, cfg),
			fragmentsToggleCmd(db, cfg),
		},
	}
}

func fragmentsListCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored fragments",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-markers", Usage: "Include marker fragments"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListFragments(c.Context, db, cfg, ops.ListFragmentsInput{
				IncludeMarkers: c.Bool("include-markers"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func fragmentsUpsertCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "upsert",
		Usage:     "Create or edit a fragment (content may be piped via stdin)",
		ArgsUsage: "[identifier]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Message role: system|user|assistant"},
			&cli.StringFlag{Name: "content", Usage: "Fragment content (overrides stdin)"},
			&cli.IntFlag{Name: "position", Usage: "Injection position: 0 relative, 1 absolute"},
			&cli.IntFlag{Name: "depth", Usage: "Injection depth for absolute placement"},
			&cli.IntFlag{Name: "order", Usage: "Tiebreak order for equal depths"},
			&cli.StringFlag{Name: "triggers", Usage: "Comma-separated generation types that activate the fragment"},
			&cli.BoolFlag{Name: "forbid-overrides", Usage: "Refuse character overrides for this fragment"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpsertFragmentInput{
				Name:              c.String("name"),
				Role:              c.String("role"),
				Content:           c.String("content"),
				InjectionPosition: c.Int("position"),
				InjectionDepth:    c.Int("depth"),
				InjectionOrder:    c.Int("order"),
				ForbidOverrides:   c.Bool("forbid-overrides"),
			}
			if c.NArg() > 0 {
				input.Identifier = c.Args().First()
			}
			if input.Content == "" && stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Content = content
			}
			if triggers := c.String("triggers"); triggers != "" {
				input.InjectionTrigger = parseCSV(triggers)
			}

			output, err := ops.UpsertFragment(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func fragmentsDeleteCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a fragment and its order entries",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("identifier is required"))
			}
			output, err := ops.DeleteFragment(c.Context, db, cfg, ops.DeleteFragmentInput{
				Identifier: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func fragmentsToggleCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Enable, disable, or flip a fragment in a scope order",
		ArgsUsage: "<identifier>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
			&cli.BoolFlag{Name: "on", Usage: "Force enabled"},
			&cli.BoolFlag{Name: "off", Usage: "Force disabled"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("identifier is required"))
			}
			input := ops.ToggleFragmentInput{
				ScopeID:    c.String("scope"),
				Identifier: c.Args().First(),
			}
			if c.Bool("on") {
				enabled := true
				input.Enabled = &enabled
			} else if c.Bool("off") {
				enabled := false
				input.Enabled = &enabled
			}

			output, err := ops.ToggleFragment(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// orderCmd creates the order command group.
func orderCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "Manage scope prompt orders",
		Subcommands: []*cli.Command{
			orderShowCmd(db, cfg),
			orderSetCmd(db, cfg),
			orderResetCmd(db, cfg),
		},
	}
}

func orderShowCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show the order entries for a scope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ShowOrder(c.Context, db, cfg, ops.ShowOrderInput{
				ScopeID: c.String("scope"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func orderSetCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Replace a scope order (identifiers as args, or a JSON entry list via stdin)",
		ArgsUsage: "[identifier...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SetOrderInput{ScopeID: c.String("scope")}

			if c.NArg() > 0 {
				for _, identifier := range c.Args().Slice() {
					input.Entries = append(input.Entries, prompt.OrderEntry{
						Identifier: identifier,
						Enabled:    true,
					})
				}
			} else if stdinHasData() {
				data, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if err := json.Unmarshal([]byte(data), &input.Entries); err != nil {
					return outputError(errors.NewInvalidRequest("entries must be a JSON list of {identifier, enabled}"))
				}
			} else {
				return outputError(errors.NewInvalidRequest("entries are required (args or stdin)"))
			}

			output, err := ops.SetOrder(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func orderResetCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Drop a scope order (the global scope reseeds its defaults)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ResetOrder(c.Context, db, cfg, ops.ResetOrderInput{
				ScopeID: c.String("scope"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export fragments and a scope order as a JSON envelope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Write the envelope to a file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				ScopeID: c.String("scope"),
			})
			if err != nil {
				return outputError(err)
			}

			if path := c.String("path"); path != "" {
				data, err := json.MarshalIndent(output.Envelope, "", "  ")
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(map[string]any{"path": path, "fragments": output.Fragments})
			}
			return outputJSON(output.Envelope)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a JSON envelope (stdin or --path)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "Scope ID (default: global)"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Envelope file path"},
		},
		Action: func(c *cli.Context) error {
			data, err := readInputData(c.String("path"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				ScopeID: c.String("scope"),
				Data:    data,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// presetCmd creates the preset command group.
func presetCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "preset",
		Usage: "Manage settings presets",
		Subcommands: []*cli.Command{
			presetListCmd(db, cfg),
			presetSaveCmd(db, cfg),
			presetApplyCmd(db, cfg),
			presetRenameCmd(db, cfg),
			presetDeleteCmd(db, cfg),
			presetExportCmd(db, cfg),
			presetImportCmd(db, cfg),
		},
	}
}

func presetListCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored presets",
		Action: func(c *cli.Context) error {
			output, err := ops.ListPresets(c.Context, db, cfg, ops.ListPresetsInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetSaveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Snapshot the live settings under a preset name",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("preset name is required"))
			}
			output, err := ops.SavePreset(c.Context, db, cfg, ops.SavePresetInput{
				Name: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetApplyCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Merge a preset over the live settings",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "Active provider name"},
			&cli.BoolFlag{Name: "overwrite-provider", Usage: "Let the preset replace the active provider"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("preset name is required"))
			}
			output, err := ops.ApplyPreset(c.Context, db, cfg, ops.ApplyPresetInput{
				Name:              c.Args().First(),
				Provider:          c.String("provider"),
				OverwriteProvider: c.Bool("overwrite-provider"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetRenameCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a preset",
		ArgsUsage: "<old-name> <new-name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("old and new names are required"))
			}
			output, err := ops.RenamePreset(c.Context, db, cfg, ops.RenamePresetInput{
				OldName: c.Args().Get(0),
				NewName: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetDeleteCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a preset",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("preset name is required"))
			}
			output, err := ops.DeletePreset(c.Context, db, cfg, ops.DeletePresetInput{
				Name: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetExportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Print a preset bundle as JSON",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("preset name is required"))
			}
			output, err := ops.ExportPreset(c.Context, db, cfg, ops.ExportPresetInput{
				Name: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func presetImportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import an externally authored preset (stdin or --path)",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Preset file path"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("preset name is required"))
			}
			data, err := readInputData(c.String("path"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ImportPreset(c.Context, db, cfg, ops.ImportPresetInput{
				Name: c.Args().First(),
				Data: data,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default: config web_bind)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default: config web_port)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if v := c.String("bind"); v != "" {
				bind = v
			}
			port := cfg.WebPort
			if v := c.Int("port"); v != 0 {
				port = v
			}
			srv := web.NewServer(db, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if loomErr, ok := err.(*errors.LoomError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", loomErr.Code, loomErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readInputData reads JSON payload bytes from a file path, or stdin when no path is given.
func readInputData(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", path, err))
		}
		return data, nil
	}
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("data must be piped via stdin or given with --path")
	}
	text, err := readStdin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return []byte(text), nil
}

// parseCSV splits a comma-separated string into a trimmed slice.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
