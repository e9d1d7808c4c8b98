package prompt

// Message is a resolved fragment snapshot inside a Collection: content has
// been template-substituted and positioning metadata is carried through for
// the wire-payload builder.
type Message struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
	Role       Role   `json:"role"`
	Content    string `json:"content"`

	Marker            bool              `json:"marker,omitempty"`
	InjectionPosition InjectionPosition `json:"injection_position,omitempty"`
	InjectionDepth    int               `json:"injection_depth,omitempty"`
	InjectionOrder    int               `json:"injection_order,omitempty"`
	ForbidOverrides   bool              `json:"forbid_overrides,omitempty"`

	// Tokens is filled in by the accountant after composition; zero until
	// the first recompute.
	Tokens int `json:"tokens,omitempty"`
}

// Collection is the output of a composition call: an ordered sequence of
// resolved fragment snapshots. It is created fresh on every call and never
// mutated in place.
type Collection struct {
	Messages []Message `json:"messages"`
}

// Has reports whether the collection contains a message with the identifier.
func (c *Collection) Has(identifier string) bool {
	for _, m := range c.Messages {
		if m.Identifier == identifier {
			return true
		}
	}
	return false
}

// Get returns the first message with the identifier.
func (c *Collection) Get(identifier string) (Message, bool) {
	for _, m := range c.Messages {
		if m.Identifier == identifier {
			return m, true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (c *Collection) Len() int {
	return len(c.Messages)
}
