package engine

import (
	"testing"

	"github.com/hpungsan/loom/internal/prompt"
)

func newSanitizedEngine() *Engine {
	e := New(Options{UserName: "Alice", CharName: "Bob"})
	e.Sanitize()
	return e
}

func TestCompose_DefaultState(t *testing.T) {
	e := newSanitizedEngine()

	c := e.Compose(prompt.CanonicalScope, "normal")

	// enhanceDefinitions is disabled in the default order.
	if c.Has(prompt.IDEnhanceDefinitions) {
		t.Error("disabled enhanceDefinitions should not be emitted")
	}

	// Empty-content markers are still present, filled downstream.
	for _, id := range []string{prompt.IDChatHistory, prompt.IDWorldInfoBefore, prompt.IDDialogueExamples} {
		m, ok := c.Get(id)
		if !ok {
			t.Errorf("marker %q should be emitted despite empty content", id)
			continue
		}
		if !m.Marker {
			t.Errorf("emitted %q should carry the marker flag", id)
		}
	}

	// nsfw has empty content and is neither marker nor main: excluded.
	if c.Has(prompt.IDNSFW) {
		t.Error("empty non-marker fragment should be excluded")
	}

	// main has content and leads the sequence.
	m, ok := c.Get(prompt.IDMain)
	if !ok {
		t.Fatal("main should be emitted")
	}
	if c.Messages[0].Identifier != prompt.IDMain {
		t.Errorf("first message = %q, want main", c.Messages[0].Identifier)
	}
	if m.Content == "" {
		t.Error("main content should survive composition")
	}
}

func TestCompose_MainPersistsWhenDisabled(t *testing.T) {
	e := newSanitizedEngine()

	order := e.Orders().Get(prompt.CanonicalScope)
	for i := range order {
		if order[i].Identifier == prompt.IDMain {
			order[i].Enabled = false
		}
	}
	e.Orders().Replace(prompt.CanonicalScope, order)

	c := e.Compose(prompt.CanonicalScope, "normal")
	m, ok := c.Get(prompt.IDMain)
	if !ok {
		t.Fatal("disabled main should still be emitted as an extension hook")
	}
	if m.Content != "" {
		t.Errorf("disabled main content = %q, want empty", m.Content)
	}
	if c.Messages[0].Identifier != prompt.IDMain {
		t.Error("disabled main should keep its original position")
	}
}

func TestCompose_MainPersistsWhenEmpty(t *testing.T) {
	e := newSanitizedEngine()

	main, _ := e.Prompts().Get(prompt.IDMain)
	main.Content = "   "
	e.Prompts().Upsert(main)

	c := e.Compose(prompt.CanonicalScope, "normal")
	if !c.Has(prompt.IDMain) {
		t.Error("empty main should still be emitted")
	}
}

func TestCompose_TriggerFiltering(t *testing.T) {
	e := newSanitizedEngine()
	e.Prompts().Upsert(prompt.Prompt{
		Identifier:       "quietOnly",
		Content:          "only for quiet generations",
		InjectionTrigger: []prompt.GenerationType{prompt.GenQuiet},
	})
	e.Sanitize()

	if c := e.Compose(prompt.CanonicalScope, "normal"); c.Has("quietOnly") {
		t.Error("quiet-only fragment should be absent from normal composition")
	}
	if c := e.Compose(prompt.CanonicalScope, "quiet"); !c.Has("quietOnly") {
		t.Error("quiet-only fragment should be present in quiet composition")
	}
}

func TestCompose_Substitution(t *testing.T) {
	e := newSanitizedEngine()
	e.Prompts().Upsert(prompt.Prompt{Identifier: "greet", Content: "Hello {{user}}, I am {{char}}."})
	e.Sanitize()

	c := e.Compose(prompt.CanonicalScope, "normal")
	m, ok := c.Get("greet")
	if !ok {
		t.Fatal("greet should be emitted")
	}
	if m.Content != "Hello Alice, I am Bob." {
		t.Errorf("substituted content = %q", m.Content)
	}
}

func TestCompose_Deduplication(t *testing.T) {
	e := newSanitizedEngine()
	e.Prompts().Upsert(prompt.Prompt{Identifier: "dup", Content: "once"})
	order := e.Orders().Get(prompt.CanonicalScope)
	order = append(order,
		prompt.OrderEntry{Identifier: "dup", Enabled: true},
		prompt.OrderEntry{Identifier: "dup", Enabled: true},
	)
	e.Orders().Replace(prompt.CanonicalScope, order)

	c := e.Compose(prompt.CanonicalScope, "normal")
	seen := 0
	for _, m := range c.Messages {
		if m.Identifier == "dup" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("dup emitted %d times, want 1", seen)
	}
}

func TestCompose_FallbackRegistersNewcomer(t *testing.T) {
	e := newSanitizedEngine()

	// Added directly to the store, no order entry, no sanitize.
	e.Prompts().Upsert(prompt.Prompt{Identifier: "custom1", Content: "hello"})

	c := e.Compose(prompt.CanonicalScope, "normal")
	if !c.Has("custom1") {
		t.Fatal("unregistered fragment should still be composed via the fallback scan")
	}

	e.Flush()
	entry, ok := e.Orders().FindEntry(prompt.CanonicalScope, "custom1")
	if !ok {
		t.Fatal("fallback should register custom1 into the canonical order")
	}
	if !entry.Enabled {
		t.Error("registered entry should be enabled")
	}

	// A second composition no longer needs the fallback; still one emission.
	c2 := e.Compose(prompt.CanonicalScope, "normal")
	seen := 0
	for _, m := range c2.Messages {
		if m.Identifier == "custom1" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("custom1 emitted %d times after registration, want 1", seen)
	}
}

func TestCompose_SkipsDanglingReference(t *testing.T) {
	e := newSanitizedEngine()
	order := e.Orders().Get(prompt.CanonicalScope)
	order = append(order, prompt.OrderEntry{Identifier: "ghost", Enabled: true})
	e.Orders().Replace(prompt.CanonicalScope, order)

	c := e.Compose(prompt.CanonicalScope, "normal")
	if c.Has("ghost") {
		t.Error("unresolved reference should be skipped, not emitted")
	}
}

func TestCompose_EmptyScopeFallsBackToCanonical(t *testing.T) {
	e := newSanitizedEngine()
	a := e.Compose("", "normal")
	b := e.Compose(prompt.CanonicalScope, "normal")
	if a.Len() != b.Len() {
		t.Errorf("empty scope composed %d messages, canonical %d", a.Len(), b.Len())
	}
}

func TestCompose_AbsoluteMetadataPreserved(t *testing.T) {
	e := newSanitizedEngine()
	e.Prompts().Upsert(prompt.Prompt{
		Identifier:        "deep",
		Content:           "injected at depth",
		InjectionPosition: prompt.PositionAbsolute,
	})
	e.Sanitize()

	c := e.Compose(prompt.CanonicalScope, "normal")
	m, ok := c.Get("deep")
	if !ok {
		t.Fatal("absolute fragment should be emitted")
	}
	if m.InjectionPosition != prompt.PositionAbsolute {
		t.Error("injection position metadata should be preserved")
	}
	if m.InjectionDepth != prompt.DefaultInjectionDepth || m.InjectionOrder != prompt.DefaultInjectionOrder {
		t.Errorf("depth/order = %d/%d, want defaults %d/%d",
			m.InjectionDepth, m.InjectionOrder, prompt.DefaultInjectionDepth, prompt.DefaultInjectionOrder)
	}
}
