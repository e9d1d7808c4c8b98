package prompt

// CanonicalScope is the reserved scope id used when per-character ordering
// is not enabled.
const CanonicalScope = "global"

// Reserved identifiers of the engine's default fragment set.
const (
	IDMain               = "main"
	IDNSFW               = "nsfw"
	IDJailbreak          = "jailbreak"
	IDEnhanceDefinitions = "enhanceDefinitions"
	IDWorldInfoBefore    = "worldInfoBefore"
	IDWorldInfoAfter     = "worldInfoAfter"
	IDCharDescription    = "charDescription"
	IDCharPersonality    = "charPersonality"
	IDScenario           = "scenario"
	IDDialogueExamples   = "dialogueExamples"
	IDChatHistory        = "chatHistory"
	IDPersonaDescription = "personaDescription"
)

// systemPromptIdentifiers are the engine-reserved fragments that carry
// editable content but can never be deleted.
var systemPromptIdentifiers = map[string]bool{
	IDMain:               true,
	IDNSFW:               true,
	IDJailbreak:          true,
	IDEnhanceDefinitions: true,
}

// IsSystemPromptIdentifier reports whether id names an engine-reserved
// content fragment.
func IsSystemPromptIdentifier(id string) bool {
	return systemPromptIdentifiers[id]
}

// defaultIdentifiers is the full reserved set, markers included.
var defaultIdentifiers = map[string]bool{
	IDMain:               true,
	IDNSFW:               true,
	IDJailbreak:          true,
	IDEnhanceDefinitions: true,
	IDWorldInfoBefore:    true,
	IDWorldInfoAfter:     true,
	IDCharDescription:    true,
	IDCharPersonality:    true,
	IDScenario:           true,
	IDDialogueExamples:   true,
	IDChatHistory:        true,
	IDPersonaDescription: true,
}

// IsDefaultIdentifier reports whether id belongs to the reserved default
// fragment set.
func IsDefaultIdentifier(id string) bool {
	return defaultIdentifiers[id]
}

// DefaultPrompts returns the hard-coded default fragment set (12 fragments:
// the 11 scope-ordered defaults plus personaDescription).
func DefaultPrompts() []Prompt {
	return []Prompt{
		{
			Identifier:   IDMain,
			Name:         "Main Prompt",
			Role:         RoleSystem,
			SystemPrompt: true,
			Content: "Write {{char}}'s next reply in a fictional chat between {{char}} and {{user}}. " +
				"Write 1 reply only in internet RP style, italicize actions, and avoid quotation marks. " +
				"Be proactive, creative, and drive the plot and conversation forward.",
		},
		{
			Identifier:   IDWorldInfoBefore,
			Name:         "World Info (before)",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDCharDescription,
			Name:         "Char Description",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDCharPersonality,
			Name:         "Char Personality",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDScenario,
			Name:         "Scenario",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDEnhanceDefinitions,
			Name:         "Enhance Definitions",
			Role:         RoleSystem,
			SystemPrompt: true,
			Content: "If you have more knowledge of {{char}}, add to the character's lore and " +
				"personality to enhance them but keep the Character Sheet's definitions absolute.",
		},
		{
			Identifier:   IDNSFW,
			Name:         "Auxiliary Prompt",
			Role:         RoleSystem,
			SystemPrompt: true,
		},
		{
			Identifier:   IDWorldInfoAfter,
			Name:         "World Info (after)",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDDialogueExamples,
			Name:         "Chat Examples",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDChatHistory,
			Name:         "Chat History",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
		{
			Identifier:   IDJailbreak,
			Name:         "Post-History Instructions",
			Role:         RoleSystem,
			SystemPrompt: true,
		},
		{
			Identifier:   IDPersonaDescription,
			Name:         "Persona Description",
			Role:         RoleSystem,
			SystemPrompt: true,
			Marker:       true,
		},
	}
}

// DefaultPrompt returns the default definition for a reserved identifier.
func DefaultPrompt(id string) (Prompt, bool) {
	for _, p := range DefaultPrompts() {
		if p.Identifier == id {
			return p, true
		}
	}
	return Prompt{}, false
}

// DefaultOrder returns the hard-coded canonical order (11 entries;
// personaDescription is positioned by an external collaborator and is not
// part of the scope order).
func DefaultOrder() []OrderEntry {
	return []OrderEntry{
		{Identifier: IDMain, Enabled: true},
		{Identifier: IDWorldInfoBefore, Enabled: true},
		{Identifier: IDCharDescription, Enabled: true},
		{Identifier: IDCharPersonality, Enabled: true},
		{Identifier: IDScenario, Enabled: true},
		{Identifier: IDEnhanceDefinitions, Enabled: false},
		{Identifier: IDNSFW, Enabled: true},
		{Identifier: IDWorldInfoAfter, Enabled: true},
		{Identifier: IDDialogueExamples, Enabled: true},
		{Identifier: IDChatHistory, Enabled: true},
		{Identifier: IDJailbreak, Enabled: true},
	}
}
