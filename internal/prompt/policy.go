package prompt

// PolicyConfig is a closed deny-list of identifiers whose mutations are
// rejected beyond the flag-based rules. The zero value denies nothing extra.
type PolicyConfig struct {
	// DenyDelete lists identifiers that may never be deleted even when
	// their flags would allow it.
	DenyDelete []string

	// DenyEdit lists identifiers whose content may not be edited.
	DenyEdit []string
}

func contains(list []string, id string) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}

// IsToggleAllowed reports whether a fragment may be enabled/disabled.
// Markers are positioned, never toggled.
func IsToggleAllowed(p Prompt) bool {
	return !p.Marker
}

// IsEditAllowed reports whether a fragment's content may be edited.
func IsEditAllowed(p Prompt, policy PolicyConfig) bool {
	if p.Marker {
		return false
	}
	return !contains(policy.DenyEdit, p.Identifier)
}

// IsDeletionAllowed reports whether a fragment may be deleted. Engine-reserved
// fragments and markers survive every delete attempt.
func IsDeletionAllowed(p Prompt, policy PolicyConfig) bool {
	if p.Marker {
		return false
	}
	if p.SystemPrompt && IsSystemPromptIdentifier(p.Identifier) {
		return false
	}
	return !contains(policy.DenyDelete, p.Identifier)
}
