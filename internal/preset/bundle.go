package preset

import "github.com/hpungsan/loom/internal/prompt"

// Bundle is a persisted preset: generation parameters plus optional
// prompts/prompt_order. Scalar fields are pointers so "present in the
// bundle" is representable — a present key overwrites the live key on
// apply, an absent key leaves it alone.
type Bundle struct {
	Temperature       *float64 `json:"temperature,omitempty"`
	FrequencyPenalty  *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty   *float64 `json:"presence_penalty,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	TopA              *float64 `json:"top_a,omitempty"`
	MinP              *float64 `json:"min_p,omitempty"`
	Seed              *int     `json:"seed,omitempty"`

	MaxContext *int `json:"max_context,omitempty"`
	MaxTokens  *int `json:"max_tokens,omitempty"`

	SquashSystemMessages *bool   `json:"squash_system_messages,omitempty"`
	WrapInQuotes         *bool   `json:"wrap_in_quotes,omitempty"`
	NamesBehavior        *int    `json:"names_behavior,omitempty"`
	ContinuePrefill      *bool   `json:"continue_prefill,omitempty"`
	ContinuePostfix      *string `json:"continue_postfix,omitempty"`
	SendIfEmpty          *string `json:"send_if_empty,omitempty"`

	ImpersonationPrompt  *string `json:"impersonation_prompt,omitempty"`
	NewChatPrompt        *string `json:"new_chat_prompt,omitempty"`
	NewGroupChatPrompt   *string `json:"new_group_chat_prompt,omitempty"`
	NewExampleChatPrompt *string `json:"new_example_chat_prompt,omitempty"`
	ContinueNudgePrompt  *string `json:"continue_nudge_prompt,omitempty"`
	GroupNudgePrompt     *string `json:"group_nudge_prompt,omitempty"`

	WorldInfoFormat   *string `json:"wi_format,omitempty"`
	ScenarioFormat    *string `json:"scenario_format,omitempty"`
	PersonalityFormat *string `json:"personality_format,omitempty"`

	AssistantPrefill       *string `json:"assistant_prefill,omitempty"`
	AssistantImpersonation *string `json:"assistant_impersonation,omitempty"`
	UseSystemPrompt        *bool   `json:"use_system_prompt,omitempty"`

	Prompts     []prompt.Prompt     `json:"prompts,omitempty"`
	PromptOrder []prompt.OrderEntry `json:"prompt_order,omitempty"`
}

// DeniedKeys is the published contract of session/connection-only JSON
// keys that must never land in a persisted preset. FilterForPersistence
// enforces it structurally; imports of externally authored flat preset
// files strip these keys before decoding.
var DeniedKeys = []string{
	"active_provider",
	"chat_completion_source",
	"api_key",
	"api_keys",
	"api_key_openai",
	"api_key_claude",
	"api_key_makersuite",
	"api_key_mistralai",
	"api_key_cohere",
	"api_key_perplexity",
	"api_key_groq",
	"api_key_openrouter",
	"api_key_ai21",
	"api_key_custom",
	"api_url",
	"api_url_scale",
	"custom_url",
	"custom_include_body",
	"custom_exclude_body",
	"custom_include_headers",
	"selected_model",
	"selected_models",
	"openai_model",
	"claude_model",
	"google_model",
	"mistralai_model",
	"cohere_model",
	"perplexity_model",
	"groq_model",
	"openrouter_model",
	"openrouter_use_fallback",
	"openrouter_group_models",
	"openrouter_sort_models",
	"openrouter_providers",
	"ai21_model",
	"custom_model",
	"reverse_proxy",
	"proxy_password",
	"stream",
	"stream_openai",
	"bypass_status_check",
	"show_external_models",
	"tokenizer_remote",
	"count_tokens_remote",
	"bias_presets",
	"extensions",
	"preset_settings",
	"preset_names",
	"presets",
	"windowai_model",
}

// FilterForPersistence prunes live settings down to the bundle written to
// storage. Connection identity never makes it in; everything semantically
// part of "generation behavior + prompts" does.
func FilterForPersistence(s Settings) Bundle {
	b := Bundle{
		Temperature:       ptr(s.Temperature),
		FrequencyPenalty:  ptr(s.FrequencyPenalty),
		PresencePenalty:   ptr(s.PresencePenalty),
		RepetitionPenalty: ptr(s.RepetitionPenalty),
		TopP:              ptr(s.TopP),
		TopK:              ptr(s.TopK),
		TopA:              ptr(s.TopA),
		MinP:              ptr(s.MinP),
		Seed:              ptr(s.Seed),

		MaxContext: ptr(s.MaxContext),
		MaxTokens:  ptr(s.MaxTokens),

		SquashSystemMessages: ptr(s.SquashSystemMessages),
		WrapInQuotes:         ptr(s.WrapInQuotes),
		NamesBehavior:        ptr(s.NamesBehavior),
		ContinuePrefill:      ptr(s.ContinuePrefill),
		ContinuePostfix:      ptr(s.ContinuePostfix),
		SendIfEmpty:          ptr(s.SendIfEmpty),

		ImpersonationPrompt:  ptr(s.ImpersonationPrompt),
		NewChatPrompt:        ptr(s.NewChatPrompt),
		NewGroupChatPrompt:   ptr(s.NewGroupChatPrompt),
		NewExampleChatPrompt: ptr(s.NewExampleChatPrompt),
		ContinueNudgePrompt:  ptr(s.ContinueNudgePrompt),
		GroupNudgePrompt:     ptr(s.GroupNudgePrompt),

		WorldInfoFormat:   ptr(s.WorldInfoFormat),
		ScenarioFormat:    ptr(s.ScenarioFormat),
		PersonalityFormat: ptr(s.PersonalityFormat),

		AssistantPrefill:       ptr(s.AssistantPrefill),
		AssistantImpersonation: ptr(s.AssistantImpersonation),
		UseSystemPrompt:        ptr(s.UseSystemPrompt),
	}

	if len(s.Prompts) > 0 {
		b.Prompts = make([]prompt.Prompt, len(s.Prompts))
		for i, p := range s.Prompts {
			b.Prompts[i] = p.Clone()
		}
	}
	if len(s.PromptOrder) > 0 {
		b.PromptOrder = prompt.CloneOrder(s.PromptOrder)
	}
	return b
}

func ptr[T any](v T) *T {
	return &v
}
