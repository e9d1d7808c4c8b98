package engine

import "github.com/hpungsan/loom/internal/prompt"

// Sanitize restores the PromptStore/OrderStore pair to a consistent state
// after any external mutation (load, import, preset switch). It never
// fails; it only repairs. Running it twice produces the same result as
// once, since it is invoked defensively after nearly every mutation path.
func Sanitize(prompts *PromptStore, orders *OrderStore) {
	seedCanonicalOrder(orders)
	seedDefaultPrompts(prompts)
	assignMissingFields(prompts)
	pruneDanglingEntries(prompts, orders)
	registerUserPrompts(prompts, orders)
}

// seedCanonicalOrder seeds the canonical scope with the hard-coded default
// order when its list is missing or empty.
func seedCanonicalOrder(orders *OrderStore) {
	if len(orders.Get(prompt.CanonicalScope)) == 0 {
		orders.Replace(prompt.CanonicalScope, prompt.DefaultOrder())
	}
}

// seedDefaultPrompts guarantees the engine-reserved fragments always exist
// even if a prior import dropped them. An entirely empty store gets the
// full default set.
func seedDefaultPrompts(prompts *PromptStore) {
	if prompts.Len() == 0 {
		for _, p := range prompt.DefaultPrompts() {
			prompts.Upsert(p)
		}
		return
	}
	for _, p := range prompt.DefaultPrompts() {
		if _, ok := prompts.Get(p.Identifier); !ok {
			prompts.Upsert(p)
		}
	}
}

// assignMissingFields fills in roles left blank by imports. Identifiers
// are assigned at insertion (ReplaceAll/Upsert both guarantee a key), so
// only the role default remains to repair here.
func assignMissingFields(prompts *PromptStore) {
	for _, p := range prompts.All() {
		if p.Role == "" {
			p.Role = prompt.RoleSystem
			prompts.Upsert(p)
		}
	}
}

// pruneDanglingEntries drops, for every scope, entries whose identifier no
// longer resolves in the PromptStore, and collapses duplicate references so
// each fragment appears at most once per scope.
func pruneDanglingEntries(prompts *PromptStore, orders *OrderStore) {
	for _, scopeID := range orders.Scopes() {
		entries := orders.Get(scopeID)
		kept := make([]prompt.OrderEntry, 0, len(entries))
		seen := make(map[string]bool, len(entries))
		changed := false
		for _, e := range entries {
			if _, ok := prompts.Get(e.Identifier); !ok {
				changed = true
				continue
			}
			if seen[e.Identifier] {
				changed = true
				continue
			}
			seen[e.Identifier] = true
			kept = append(kept, e)
		}
		if changed {
			orders.Replace(scopeID, kept)
		}
	}
}

// registerUserPrompts appends user-added fragments to the canonical order
// so they are always reachable by composition without manual order editing.
func registerUserPrompts(prompts *PromptStore, orders *OrderStore) {
	for _, p := range prompts.All() {
		if p.SystemPrompt || p.Marker || prompt.IsDefaultIdentifier(p.Identifier) {
			continue
		}
		if _, ok := orders.FindEntry(prompt.CanonicalScope, p.Identifier); ok {
			continue
		}
		orders.Append(prompt.CanonicalScope, prompt.OrderEntry{
			Identifier: p.Identifier,
			Enabled:    true,
		})
	}
}
