package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/ops"
	"github.com/hpungsan/loom/internal/prompt"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ComposeRequest represents the arguments for prompt_compose.
type ComposeRequest struct {
	ScopeID        string `json:"scope_id,omitempty"`
	GenerationType string `json:"generation_type,omitempty"`
}

// ImportRequest represents the arguments for prompt_import.
type ImportRequest struct {
	Data    string `json:"data"`
	ScopeID string `json:"scope_id,omitempty"`
}

// ExportRequest represents the arguments for prompt_export.
type ExportRequest struct {
	ScopeID string `json:"scope_id,omitempty"`
}

// FragmentUpsertRequest represents the arguments for fragment_upsert.
type FragmentUpsertRequest struct {
	Identifier        string   `json:"identifier,omitempty"`
	Name              string   `json:"name,omitempty"`
	Role              string   `json:"role,omitempty"`
	Content           string   `json:"content,omitempty"`
	InjectionPosition int      `json:"injection_position,omitempty"`
	InjectionDepth    int      `json:"injection_depth,omitempty"`
	InjectionOrder    int      `json:"injection_order,omitempty"`
	InjectionTrigger  []string `json:"injection_trigger,omitempty"`
	ForbidOverrides   bool     `json:"forbid_overrides,omitempty"`
}

// FragmentDeleteRequest represents the arguments for fragment_delete.
type FragmentDeleteRequest struct {
	Identifier string `json:"identifier"`
}

// FragmentToggleRequest represents the arguments for fragment_toggle.
type FragmentToggleRequest struct {
	Identifier string `json:"identifier"`
	ScopeID    string `json:"scope_id,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// OrderSetRequest represents the arguments for order_set.
type OrderSetRequest struct {
	ScopeID string              `json:"scope_id,omitempty"`
	Entries []prompt.OrderEntry `json:"entries"`
}

// PresetSaveRequest represents the arguments for preset_save.
type PresetSaveRequest struct {
	Name string `json:"name"`
}

// PresetApplyRequest represents the arguments for preset_apply.
type PresetApplyRequest struct {
	Name              string `json:"name"`
	OverwriteProvider bool   `json:"overwrite_provider,omitempty"`
	Provider          string `json:"provider,omitempty"`
}

// PresetRenameRequest represents the arguments for preset_rename.
type PresetRenameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// PresetDeleteRequest represents the arguments for preset_delete.
type PresetDeleteRequest struct {
	Name string `json:"name"`
}

// Handler implementations

// HandleCompose handles the prompt_compose tool call.
func (h *Handlers) HandleCompose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ComposeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Compose(ctx, h.db, h.cfg, ops.ComposeInput{
		ScopeID:        input.ScopeID,
		GenerationType: input.GenerationType,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTokens handles the prompt_tokens tool call.
func (h *Handlers) HandleTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ComposeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Tokens(ctx, h.db, h.cfg, ops.TokensInput{
		ScopeID:        input.ScopeID,
		GenerationType: input.GenerationType,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the prompt_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		ScopeID: input.ScopeID,
		Data:    []byte(input.Data),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the prompt_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		ScopeID: input.ScopeID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFragmentUpsert handles the fragment_upsert tool call.
func (h *Handlers) HandleFragmentUpsert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FragmentUpsertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpsertFragment(ctx, h.db, h.cfg, ops.UpsertFragmentInput{
		Identifier:        input.Identifier,
		Name:              input.Name,
		Role:              input.Role,
		Content:           input.Content,
		InjectionPosition: input.InjectionPosition,
		InjectionDepth:    input.InjectionDepth,
		InjectionOrder:    input.InjectionOrder,
		InjectionTrigger:  input.InjectionTrigger,
		ForbidOverrides:   input.ForbidOverrides,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFragmentDelete handles the fragment_delete tool call.
func (h *Handlers) HandleFragmentDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FragmentDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteFragment(ctx, h.db, h.cfg, ops.DeleteFragmentInput{
		Identifier: input.Identifier,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFragmentToggle handles the fragment_toggle tool call.
func (h *Handlers) HandleFragmentToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FragmentToggleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ToggleFragment(ctx, h.db, h.cfg, ops.ToggleFragmentInput{
		Identifier: input.Identifier,
		ScopeID:    input.ScopeID,
		Enabled:    input.Enabled,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleOrderSet handles the order_set tool call.
func (h *Handlers) HandleOrderSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OrderSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SetOrder(ctx, h.db, h.cfg, ops.SetOrderInput{
		ScopeID: input.ScopeID,
		Entries: input.Entries,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePresetList handles the preset_list tool call.
func (h *Handlers) HandlePresetList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListPresets(ctx, h.db, h.cfg, ops.ListPresetsInput{})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePresetSave handles the preset_save tool call.
func (h *Handlers) HandlePresetSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PresetSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SavePreset(ctx, h.db, h.cfg, ops.SavePresetInput{
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePresetApply handles the preset_apply tool call.
func (h *Handlers) HandlePresetApply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PresetApplyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ApplyPreset(ctx, h.db, h.cfg, ops.ApplyPresetInput{
		Name:              input.Name,
		OverwriteProvider: input.OverwriteProvider,
		Provider:          input.Provider,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePresetRename handles the preset_rename tool call.
func (h *Handlers) HandlePresetRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PresetRenameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RenamePreset(ctx, h.db, h.cfg, ops.RenamePresetInput{
		OldName: input.OldName,
		NewName: input.NewName,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePresetDelete handles the preset_delete tool call.
func (h *Handlers) HandlePresetDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PresetDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeletePreset(ctx, h.db, h.cfg, ops.DeletePresetInput{
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from any error.
// Loom errors keep their code/status; everything else is masked as a
// generic internal error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if loomErr, ok := err.(*errors.LoomError); ok {
		errorObj := map[string]any{
			"code":    loomErr.Code,
			"message": loomErr.Message,
			"status":  loomErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if loomErr.Code != errors.ErrInternal && loomErr.Details != nil {
			errorObj["details"] = loomErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
