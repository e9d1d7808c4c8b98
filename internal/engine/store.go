package engine

import (
	"github.com/google/uuid"

	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

// PromptStore owns the mapping of fragment identifier to Prompt record.
// Insertion order is preserved so exports stay stable.
type PromptStore struct {
	order  []string
	byID   map[string]prompt.Prompt
	policy prompt.PolicyConfig
}

// NewPromptStore creates an empty PromptStore with the given policy.
func NewPromptStore(policy prompt.PolicyConfig) *PromptStore {
	return &PromptStore{
		byID:   make(map[string]prompt.Prompt),
		policy: policy,
	}
}

// Get looks up a fragment. Absence is routine during imports and async
// races, so it is an absent-value return, not an error.
func (s *PromptStore) Get(identifier string) (prompt.Prompt, bool) {
	p, ok := s.byID[identifier]
	if !ok {
		return prompt.Prompt{}, false
	}
	return p.Clone(), true
}

// Upsert inserts or replaces a fragment. An empty identifier gets a fresh
// UUIDv4 assigned here — the single place id generation happens — and the
// assigned identifier is returned.
func (s *PromptStore) Upsert(p prompt.Prompt) string {
	if p.Identifier == "" {
		p.Identifier = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = prompt.RoleSystem
	}
	if p.InjectionPosition == prompt.PositionAbsolute {
		if p.InjectionDepth == 0 {
			p.InjectionDepth = prompt.DefaultInjectionDepth
		}
		if p.InjectionOrder == 0 {
			p.InjectionOrder = prompt.DefaultInjectionOrder
		}
	}

	if _, exists := s.byID[p.Identifier]; !exists {
		s.order = append(s.order, p.Identifier)
	}
	s.byID[p.Identifier] = p.Clone()
	return p.Identifier
}

// Delete removes a fragment. Engine-reserved fragments and markers are
// protected; attempting to delete them is a policy violation, not a no-op.
// Deletion does not touch any scope's order list — callers clean up via
// OrderStore, and the Sanitizer provides the safety net.
func (s *PromptStore) Delete(identifier string) error {
	p, ok := s.byID[identifier]
	if !ok {
		return errors.NewNotFound(identifier)
	}
	if !prompt.IsDeletionAllowed(p, s.policy) {
		return errors.NewProtectedPrompt(identifier, "deleted")
	}

	delete(s.byID, identifier)
	for i, id := range s.order {
		if id == identifier {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns every fragment in insertion order. The slice and its
// elements are copies.
func (s *PromptStore) All() []prompt.Prompt {
	out := make([]prompt.Prompt, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// ReplaceAll swaps the store contents for the given fragment list,
// preserving the list's order. Records are stored as-is apart from
// identifier assignment (the map needs a key); missing roles and other
// repairs are the Sanitizer's job, and callers run it afterwards.
func (s *PromptStore) ReplaceAll(prompts []prompt.Prompt) {
	s.order = s.order[:0]
	s.byID = make(map[string]prompt.Prompt, len(prompts))
	for _, p := range prompts {
		if p.Identifier == "" {
			p.Identifier = uuid.NewString()
		}
		if _, exists := s.byID[p.Identifier]; !exists {
			s.order = append(s.order, p.Identifier)
		}
		s.byID[p.Identifier] = p.Clone()
	}
}

// Len returns the number of fragments.
func (s *PromptStore) Len() int {
	return len(s.order)
}

// Policy returns the store's policy configuration.
func (s *PromptStore) Policy() prompt.PolicyConfig {
	return s.policy
}
