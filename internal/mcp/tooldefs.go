package mcp

import "github.com/mark3labs/mcp-go/mcp"

var composeToolDef = mcp.NewTool("prompt_compose",
	mcp.WithDescription("Compose the ordered, trigger-filtered prompt fragment sequence for a scope."),
	mcp.WithString("scope_id",
		mcp.Description("Scope to compose for; omit for the global scope."),
	),
	mcp.WithString("generation_type",
		mcp.Description("Generation type: normal, continue, impersonate, swipe, regenerate, or quiet. Defaults to normal."),
	),
)

var tokensToolDef = mcp.NewTool("prompt_tokens",
	mcp.WithDescription("Compose a scope's sequence and compute per-fragment token counts."),
	mcp.WithString("scope_id",
		mcp.Description("Scope to compose for; omit for the global scope."),
	),
	mcp.WithString("generation_type",
		mcp.Description("Generation type; defaults to normal."),
	),
)

var importToolDef = mcp.NewTool("prompt_import",
	mcp.WithDescription("Import a versioned fragment envelope. Fragments merge by identifier with incoming winning; a list-shaped prompt_order replaces the scope's order."),
	mcp.WithString("data",
		mcp.Required(),
		mcp.Description("The envelope JSON document."),
	),
	mcp.WithString("scope_id",
		mcp.Description("Scope whose order list the envelope targets; omit for the global scope."),
	),
)

var exportToolDef = mcp.NewTool("prompt_export",
	mcp.WithDescription("Export the fragment set and a scope's order list as a versioned envelope."),
	mcp.WithString("scope_id",
		mcp.Description("Scope whose order list to export; omit for the global scope."),
	),
)

var fragmentUpsertToolDef = mcp.NewTool("fragment_upsert",
	mcp.WithDescription("Create or edit a prompt fragment. Omit identifier to create one with a generated id."),
	mcp.WithString("identifier",
		mcp.Description("Fragment identifier; omit to create a new fragment."),
	),
	mcp.WithString("name",
		mcp.Description("Display name."),
	),
	mcp.WithString("role",
		mcp.Description("Chat role: system, user, or assistant. Defaults to system."),
	),
	mcp.WithString("content",
		mcp.Description("Fragment content; template tokens like {{user}} and {{char}} are resolved at composition time."),
	),
	mcp.WithNumber("injection_position",
		mcp.Description("0 for relative (order-list sequence), 1 for absolute depth."),
	),
	mcp.WithNumber("injection_depth",
		mcp.Description("Depth for absolute-positioned fragments."),
	),
	mcp.WithNumber("injection_order",
		mcp.Description("Order weight for absolute-positioned fragments."),
	),
	mcp.WithArray("injection_trigger",
		mcp.Description("Generation types the fragment is limited to; empty means always eligible."),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("forbid_overrides",
		mcp.Description("Protect the fragment's content from downstream overrides."),
	),
)

var fragmentDeleteToolDef = mcp.NewTool("fragment_delete",
	mcp.WithDescription("Delete a prompt fragment. Markers and engine-reserved fragments are protected."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Fragment identifier."),
	),
)

var fragmentToggleToolDef = mcp.NewTool("fragment_toggle",
	mcp.WithDescription("Flip or set the enabled flag of a fragment's order entry. Markers cannot be toggled."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Fragment identifier."),
	),
	mcp.WithString("scope_id",
		mcp.Description("Scope whose order entry to toggle; omit for the global scope."),
	),
	mcp.WithBoolean("enabled",
		mcp.Description("Explicit enabled state; omit to flip the current one."),
	),
)

var orderSetToolDef = mcp.NewTool("order_set",
	mcp.WithDescription("Replace a scope's order list. Unknown references are pruned and duplicates collapsed."),
	mcp.WithArray("entries",
		mcp.Required(),
		mcp.Description("Ordered list of {identifier, enabled} entries."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"identifier": map[string]any{"type": "string"},
				"enabled":    map[string]any{"type": "boolean"},
			},
			"required": []string{"identifier"},
		}),
	),
	mcp.WithString("scope_id",
		mcp.Description("Scope to replace the list for; omit for the global scope."),
	),
)

var presetListToolDef = mcp.NewTool("preset_list",
	mcp.WithDescription("List stored preset names in stable order with their dense index map."),
)

var presetSaveToolDef = mcp.NewTool("preset_save",
	mcp.WithDescription("Save the live settings and fragment state as a named preset. Connection/session keys are filtered out."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Preset name. Default and gui are reserved."),
	),
)

var presetApplyToolDef = mcp.NewTool("preset_apply",
	mcp.WithDescription("Apply a stored preset over the live settings. Applying Default or gui restores the hard-coded defaults."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Preset name."),
	),
	mcp.WithBoolean("overwrite_provider",
		mcp.Description("Opt into switching the active provider as part of the apply."),
	),
	mcp.WithString("provider",
		mcp.Description("Provider to switch to when overwrite_provider is set."),
	),
)

var presetRenameToolDef = mcp.NewTool("preset_rename",
	mcp.WithDescription("Rename a stored preset, keeping its list position."),
	mcp.WithString("old_name",
		mcp.Required(),
		mcp.Description("Current preset name."),
	),
	mcp.WithString("new_name",
		mcp.Required(),
		mcp.Description("New preset name."),
	),
)

var presetDeleteToolDef = mcp.NewTool("preset_delete",
	mcp.WithDescription("Delete a stored preset and compact the remaining indices."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Preset name."),
	),
)
