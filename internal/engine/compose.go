package engine

import (
	"strings"

	"github.com/hpungsan/loom/internal/prompt"
)

// Compose walks the scope's order list and emits the final ordered,
// de-duplicated, trigger-filtered sequence of resolved fragments. An empty
// scope id means the canonical scope. Composition never fails: unresolved
// references are skipped, the Sanitizer owns repairing them.
func (e *Engine) Compose(scopeID, generationType string) *prompt.Collection {
	e.mu.Lock()
	defer e.mu.Unlock()

	genType := prompt.NormalizeGenerationType(generationType)
	if scopeID == "" {
		scopeID = prompt.CanonicalScope
	}

	out := &prompt.Collection{}
	processed := make(map[string]bool)

	for _, entry := range e.orders.Get(scopeID) {
		if processed[entry.Identifier] {
			continue
		}
		p, ok := e.prompts.Get(entry.Identifier)
		if !ok {
			// Dangling reference; the Sanitizer should have pruned it.
			continue
		}
		processed[entry.Identifier] = true

		eligible := entry.Enabled && p.ShouldTrigger(genType)
		if !eligible {
			// Main keeps its position as a downstream extension hook
			// even when disabled or trigger-filtered.
			if p.Identifier == prompt.IDMain {
				m := e.resolve(p)
				m.Content = ""
				out.Messages = append(out.Messages, m)
			}
			continue
		}

		m := e.resolve(p)
		if strings.TrimSpace(m.Content) == "" && !p.Marker && p.Identifier != prompt.IDMain {
			// Markers are filled downstream; main stays as an extension
			// point; everything else empty is dropped.
			continue
		}
		out.Messages = append(out.Messages, m)
	}

	// Fallback scan: fragments added to the store before the Sanitizer's
	// safety net has run are still emitted, and their registration into
	// the canonical order is scheduled out of band.
	for _, p := range e.prompts.All() {
		if p.SystemPrompt || p.Marker || prompt.IsDefaultIdentifier(p.Identifier) {
			continue
		}
		if processed[p.Identifier] {
			continue
		}
		if strings.TrimSpace(p.Content) == "" || !p.ShouldTrigger(genType) {
			continue
		}
		processed[p.Identifier] = true
		out.Messages = append(out.Messages, e.resolve(p))
		e.scheduleRegistration(p.Identifier)
	}

	return out
}

// resolve snapshots a fragment into a Message, applying template
// substitution. Marker content is left to downstream collaborators.
func (e *Engine) resolve(p prompt.Prompt) prompt.Message {
	content := p.Content
	if !p.Marker && content != "" {
		content = e.opts.Substitutor(content, e.opts.UserName, e.opts.CharName, "")
	}
	return prompt.Message{
		Identifier:        p.Identifier,
		Name:              p.Name,
		Role:              p.Role,
		Content:           content,
		Marker:            p.Marker,
		InjectionPosition: p.InjectionPosition,
		InjectionDepth:    p.InjectionDepth,
		InjectionOrder:    p.InjectionOrder,
		ForbidOverrides:   p.ForbidOverrides,
	}
}
