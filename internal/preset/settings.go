// Package preset implements the preset/settings merge engine: named,
// persisted bundles of generation parameters and prompt data, the filter
// that keeps connection-identity fields out of them, and the merge rule
// for applying a bundle over live settings.
package preset

import "github.com/hpungsan/loom/internal/prompt"

// Reserved pseudo-preset names. They denote "use live settings, not a
// stored bundle" and are never stored, renamed, deleted, or exported.
const (
	NameDefault = "Default"
	NameGUI     = "gui"
)

// IsReservedName reports whether name is one of the protected
// pseudo-presets.
func IsReservedName(name string) bool {
	return name == NameDefault || name == NameGUI
}

// Connection holds session/connection-identity fields. They travel with
// live settings only — never with a persisted preset — so presets stay
// portable across machines and providers.
type Connection struct {
	ActiveProvider  string            `json:"active_provider,omitempty"`
	APIKeys         map[string]string `json:"api_keys,omitempty"`
	SelectedModels  map[string]string `json:"selected_models,omitempty"`
	ReverseProxyURL string            `json:"reverse_proxy,omitempty"`
	ProxyPassword   string            `json:"proxy_password,omitempty"`
	CustomEndpoint  string            `json:"custom_url,omitempty"`
	Stream          bool              `json:"stream,omitempty"`
	BypassStatus    bool              `json:"bypass_status_check,omitempty"`
	TokenizerRemote bool              `json:"tokenizer_remote,omitempty"`
}

// Clone deep-copies the connection block.
func (c Connection) Clone() Connection {
	out := c
	if c.APIKeys != nil {
		out.APIKeys = make(map[string]string, len(c.APIKeys))
		for k, v := range c.APIKeys {
			out.APIKeys[k] = v
		}
	}
	if c.SelectedModels != nil {
		out.SelectedModels = make(map[string]string, len(c.SelectedModels))
		for k, v := range c.SelectedModels {
			out.SelectedModels[k] = v
		}
	}
	return out
}

// Settings is the closed struct enumerating every recognized live-settings
// key: generation behavior plus prompts/order plus connection identity.
// There is no open-ended key spreading; anything not listed here does not
// flow through the engine.
type Settings struct {
	// Sampling.
	Temperature       float64 `json:"temperature"`
	FrequencyPenalty  float64 `json:"frequency_penalty"`
	PresencePenalty   float64 `json:"presence_penalty"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	TopA              float64 `json:"top_a"`
	MinP              float64 `json:"min_p"`
	Seed              int     `json:"seed"`

	// Context budget.
	MaxContext int `json:"max_context"`
	MaxTokens  int `json:"max_tokens"`

	// Message shaping.
	SquashSystemMessages bool   `json:"squash_system_messages"`
	WrapInQuotes         bool   `json:"wrap_in_quotes"`
	NamesBehavior        int    `json:"names_behavior"`
	ContinuePrefill      bool   `json:"continue_prefill"`
	ContinuePostfix      string `json:"continue_postfix"`
	SendIfEmpty          string `json:"send_if_empty"`

	// Utility prompt templates.
	ImpersonationPrompt  string `json:"impersonation_prompt"`
	NewChatPrompt        string `json:"new_chat_prompt"`
	NewGroupChatPrompt   string `json:"new_group_chat_prompt"`
	NewExampleChatPrompt string `json:"new_example_chat_prompt"`
	ContinueNudgePrompt  string `json:"continue_nudge_prompt"`
	GroupNudgePrompt     string `json:"group_nudge_prompt"`

	// Collaborator formats.
	WorldInfoFormat   string `json:"wi_format"`
	ScenarioFormat    string `json:"scenario_format"`
	PersonalityFormat string `json:"personality_format"`

	// Assistant-side behavior.
	AssistantPrefill       string `json:"assistant_prefill"`
	AssistantImpersonation string `json:"assistant_impersonation"`
	UseSystemPrompt        bool   `json:"use_system_prompt"`

	// Prompt data for the canonical scope.
	Prompts     []prompt.Prompt     `json:"prompts,omitempty"`
	PromptOrder []prompt.OrderEntry `json:"prompt_order,omitempty"`

	// Connection identity; excluded from every persisted preset.
	Connection Connection `json:"connection"`
}

// Clone deep-copies the settings.
func (s Settings) Clone() Settings {
	out := s
	if s.Prompts != nil {
		out.Prompts = make([]prompt.Prompt, len(s.Prompts))
		for i, p := range s.Prompts {
			out.Prompts[i] = p.Clone()
		}
	}
	if s.PromptOrder != nil {
		out.PromptOrder = prompt.CloneOrder(s.PromptOrder)
	}
	out.Connection = s.Connection.Clone()
	return out
}
