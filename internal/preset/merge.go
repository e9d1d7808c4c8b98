package preset

import "github.com/hpungsan/loom/internal/prompt"

// ApplyOptions tunes the bundle-over-live merge.
type ApplyOptions struct {
	// Reserved marks the bundle as the Default/gui pseudo-preset: when it
	// carries no prompts/prompt_order, the live ones are cleared (not
	// defaulted) so the downstream initializer repopulates the hard-coded
	// defaults exactly once.
	Reserved bool

	// OverwriteProvider opts into replacing the active provider; preset
	// switching must never silently invalidate the live connection.
	OverwriteProvider bool
	Provider          string
}

// Apply performs the field-level merge of a bundle over live settings:
// every key present in the bundle overwrites the corresponding live key,
// prompts/prompt_order replace only when non-empty, and connection
// identity is preserved from live settings.
func Apply(b Bundle, live Settings, opts ApplyOptions) Settings {
	out := live.Clone()

	setIf(&out.Temperature, b.Temperature)
	setIf(&out.FrequencyPenalty, b.FrequencyPenalty)
	setIf(&out.PresencePenalty, b.PresencePenalty)
	setIf(&out.RepetitionPenalty, b.RepetitionPenalty)
	setIf(&out.TopP, b.TopP)
	setIf(&out.TopK, b.TopK)
	setIf(&out.TopA, b.TopA)
	setIf(&out.MinP, b.MinP)
	setIf(&out.Seed, b.Seed)

	setIf(&out.MaxContext, b.MaxContext)
	setIf(&out.MaxTokens, b.MaxTokens)

	setIf(&out.SquashSystemMessages, b.SquashSystemMessages)
	setIf(&out.WrapInQuotes, b.WrapInQuotes)
	setIf(&out.NamesBehavior, b.NamesBehavior)
	setIf(&out.ContinuePrefill, b.ContinuePrefill)
	setIf(&out.ContinuePostfix, b.ContinuePostfix)
	setIf(&out.SendIfEmpty, b.SendIfEmpty)

	setIf(&out.ImpersonationPrompt, b.ImpersonationPrompt)
	setIf(&out.NewChatPrompt, b.NewChatPrompt)
	setIf(&out.NewGroupChatPrompt, b.NewGroupChatPrompt)
	setIf(&out.NewExampleChatPrompt, b.NewExampleChatPrompt)
	setIf(&out.ContinueNudgePrompt, b.ContinueNudgePrompt)
	setIf(&out.GroupNudgePrompt, b.GroupNudgePrompt)

	setIf(&out.WorldInfoFormat, b.WorldInfoFormat)
	setIf(&out.ScenarioFormat, b.ScenarioFormat)
	setIf(&out.PersonalityFormat, b.PersonalityFormat)

	setIf(&out.AssistantPrefill, b.AssistantPrefill)
	setIf(&out.AssistantImpersonation, b.AssistantImpersonation)
	setIf(&out.UseSystemPrompt, b.UseSystemPrompt)

	switch {
	case len(b.Prompts) > 0:
		out.Prompts = make([]prompt.Prompt, len(b.Prompts))
		for i, p := range b.Prompts {
			out.Prompts[i] = p.Clone()
		}
	case opts.Reserved:
		out.Prompts = nil
	}

	switch {
	case len(b.PromptOrder) > 0:
		out.PromptOrder = prompt.CloneOrder(b.PromptOrder)
	case opts.Reserved:
		out.PromptOrder = nil
	}

	// Connection identity survives the merge untouched unless the caller
	// explicitly opted into switching providers.
	out.Connection = live.Connection.Clone()
	if opts.OverwriteProvider && opts.Provider != "" {
		out.Connection.ActiveProvider = opts.Provider
	}

	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ImportMergePrompts unions two fragment lists keyed by identifier with
// incoming winning on collision — a last-write-wins keyed merge, not a
// deep field merge. Existing list order is preserved; new identifiers
// append in incoming order.
func ImportMergePrompts(existing, incoming []prompt.Prompt) []prompt.Prompt {
	replacements := make(map[string]prompt.Prompt, len(incoming))
	for _, p := range incoming {
		if p.Identifier != "" {
			replacements[p.Identifier] = p
		}
	}

	out := make([]prompt.Prompt, 0, len(existing)+len(incoming))
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		if r, ok := replacements[p.Identifier]; ok {
			out = append(out, r.Clone())
		} else {
			out = append(out, p.Clone())
		}
		seen[p.Identifier] = true
	}
	for _, p := range incoming {
		if p.Identifier == "" || !seen[p.Identifier] {
			out = append(out, p.Clone())
			seen[p.Identifier] = true
		}
	}
	return out
}
