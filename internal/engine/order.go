package engine

import "github.com/hpungsan/loom/internal/prompt"

// OrderStore owns, per scope, an ordered list of {identifier, enabled}
// entries. Scope is either the canonical "global" sentinel or a character
// id.
type OrderStore struct {
	scopes map[string][]prompt.OrderEntry
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{scopes: make(map[string][]prompt.OrderEntry)}
}

// Get returns the scope's order list, or the empty sequence if the scope
// has no list yet. The returned slice is a copy.
func (s *OrderStore) Get(scopeID string) []prompt.OrderEntry {
	entries, ok := s.scopes[scopeID]
	if !ok {
		return []prompt.OrderEntry{}
	}
	return prompt.CloneOrder(entries)
}

// Has reports whether the scope has an order list.
func (s *OrderStore) Has(scopeID string) bool {
	_, ok := s.scopes[scopeID]
	return ok
}

// Replace sets the scope's order list, creating the scope row if needed.
// The incoming list is deep-copied; callers commonly mutate a reference
// they also hold.
func (s *OrderStore) Replace(scopeID string, entries []prompt.OrderEntry) {
	s.scopes[scopeID] = prompt.CloneOrder(entries)
}

// Append adds a single entry to the end of the scope's list.
func (s *OrderStore) Append(scopeID string, entry prompt.OrderEntry) {
	s.scopes[scopeID] = append(s.scopes[scopeID], entry)
}

// Remove drops the scope's list entirely. Used only by explicit reset
// actions, not during ordinary sanitize flow.
func (s *OrderStore) Remove(scopeID string) {
	delete(s.scopes, scopeID)
}

// FindEntry returns the scope's entry for the identifier.
func (s *OrderStore) FindEntry(scopeID, identifier string) (prompt.OrderEntry, bool) {
	for _, e := range s.scopes[scopeID] {
		if e.Identifier == identifier {
			return e, true
		}
	}
	return prompt.OrderEntry{}, false
}

// SetEnabled flips the enabled flag of the scope's entry for the
// identifier. Returns false if no such entry exists.
func (s *OrderStore) SetEnabled(scopeID, identifier string, enabled bool) bool {
	entries := s.scopes[scopeID]
	for i := range entries {
		if entries[i].Identifier == identifier {
			entries[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Scopes returns every scope id that has a list.
func (s *OrderStore) Scopes() []string {
	out := make([]string, 0, len(s.scopes))
	for id := range s.scopes {
		out = append(out, id)
	}
	return out
}
