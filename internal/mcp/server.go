package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/loom/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"prompt_compose": {
		def:     composeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompose },
	},
	"prompt_tokens": {
		def:     tokensToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTokens },
	},
	"prompt_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"prompt_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"fragment_upsert": {
		def:     fragmentUpsertToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFragmentUpsert },
	},
	"fragment_delete": {
		def:     fragmentDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFragmentDelete },
	},
	"fragment_toggle": {
		def:     fragmentToggleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFragmentToggle },
	},
	"order_set": {
		def:     orderSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOrderSet },
	},
	"preset_list": {
		def:     presetListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetList },
	},
	"preset_save": {
		def:     presetSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetSave },
	},
	"preset_apply": {
		def:     presetApplyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetApply },
	},
	"preset_rename": {
		def:     presetRenameToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetRename },
	},
	"preset_delete": {
		def:     presetDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetDelete },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Loom tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"loom",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
