package prompt

import "strings"

// Role is the chat role a fragment is emitted under.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// InjectionPosition controls how a fragment is placed in the final payload.
type InjectionPosition int

const (
	// PositionRelative fragments are emitted strictly in order-list sequence.
	PositionRelative InjectionPosition = 0
	// PositionAbsolute fragments carry a model-side depth; the engine
	// preserves the metadata but does not resolve it.
	PositionAbsolute InjectionPosition = 1
)

// Defaults for absolute-positioned fragments.
const (
	DefaultInjectionDepth = 4
	DefaultInjectionOrder = 100
)

// Prompt is a named, addressable unit of prompt content with positioning
// and trigger metadata.
type Prompt struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
	Role       Role   `json:"role,omitempty"`
	Content    string `json:"content"`

	// SystemPrompt marks engine-reserved fragments that cannot be deleted.
	SystemPrompt bool `json:"system_prompt,omitempty"`

	// Marker fragments are placeholders filled by an external collaborator
	// (chat history, world info); they can be positioned but not edited.
	Marker bool `json:"marker,omitempty"`

	InjectionPosition InjectionPosition `json:"injection_position,omitempty"`
	InjectionDepth    int               `json:"injection_depth,omitempty"`
	InjectionOrder    int               `json:"injection_order,omitempty"`

	// InjectionTrigger holds generation-type tags; empty means always
	// eligible.
	InjectionTrigger []GenerationType `json:"injection_trigger,omitempty"`

	ForbidOverrides bool `json:"forbid_overrides,omitempty"`
}

// Clone returns a deep copy of the prompt.
func (p Prompt) Clone() Prompt {
	out := p
	if p.InjectionTrigger != nil {
		out.InjectionTrigger = make([]GenerationType, len(p.InjectionTrigger))
		copy(out.InjectionTrigger, p.InjectionTrigger)
	}
	return out
}

// ShouldTrigger reports whether the fragment is eligible for the given
// generation type. An empty trigger set means always eligible.
func (p Prompt) ShouldTrigger(genType GenerationType) bool {
	if len(p.InjectionTrigger) == 0 {
		return true
	}
	for _, t := range p.InjectionTrigger {
		if t == genType {
			return true
		}
	}
	return false
}

// OrderEntry references a fragment from a scope's ordering list.
type OrderEntry struct {
	Identifier string `json:"identifier"`
	Enabled    bool   `json:"enabled"`
}

// CloneOrder deep-copies an order list. Callers commonly mutate a reference
// they also hold, so the stores never share slices with them.
func CloneOrder(entries []OrderEntry) []OrderEntry {
	out := make([]OrderEntry, len(entries))
	copy(out, entries)
	return out
}

// GenerationType describes the kind of completion request in flight.
type GenerationType string

const (
	GenNormal      GenerationType = "normal"
	GenContinue    GenerationType = "continue"
	GenImpersonate GenerationType = "impersonate"
	GenSwipe       GenerationType = "swipe"
	GenRegenerate  GenerationType = "regenerate"
	GenQuiet       GenerationType = "quiet"
)

// KnownGenerationType reports whether the tag is one of the recognized
// generation types.
func KnownGenerationType(t GenerationType) bool {
	switch t {
	case GenNormal, GenContinue, GenImpersonate, GenSwipe, GenRegenerate, GenQuiet:
		return true
	}
	return false
}

// NormalizeGenerationType lower-cases the tag and defaults to "normal".
func NormalizeGenerationType(s string) GenerationType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return GenNormal
	}
	return GenerationType(s)
}
