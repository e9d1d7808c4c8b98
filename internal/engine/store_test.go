package engine

import (
	"testing"

	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

func TestPromptStore_UpsertAssignsIdentifier(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})

	id := s.Upsert(prompt.Prompt{Name: "fresh", Content: "hello"})
	if id == "" {
		t.Fatal("Upsert should assign an identifier")
	}

	p, ok := s.Get(id)
	if !ok {
		t.Fatal("assigned identifier should resolve")
	}
	if p.Role != prompt.RoleSystem {
		t.Errorf("Role = %q, want system default", p.Role)
	}
}

func TestPromptStore_UpsertReplacesInPlace(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	s.Upsert(prompt.Prompt{Identifier: "a", Content: "one"})
	s.Upsert(prompt.Prompt{Identifier: "b", Content: "two"})
	s.Upsert(prompt.Prompt{Identifier: "a", Content: "updated"})

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	all := s.All()
	if all[0].Identifier != "a" || all[0].Content != "updated" {
		t.Errorf("replace should keep position: got %q/%q", all[0].Identifier, all[0].Content)
	}
}

func TestPromptStore_AbsoluteDefaults(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	id := s.Upsert(prompt.Prompt{
		Identifier:        "abs",
		Content:           "x",
		InjectionPosition: prompt.PositionAbsolute,
	})
	p, _ := s.Get(id)
	if p.InjectionDepth != prompt.DefaultInjectionDepth {
		t.Errorf("InjectionDepth = %d, want %d", p.InjectionDepth, prompt.DefaultInjectionDepth)
	}
	if p.InjectionOrder != prompt.DefaultInjectionOrder {
		t.Errorf("InjectionOrder = %d, want %d", p.InjectionOrder, prompt.DefaultInjectionOrder)
	}
}

func TestPromptStore_DeleteProtected(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	for _, p := range prompt.DefaultPrompts() {
		s.Upsert(p)
	}

	for _, id := range []string{prompt.IDMain, prompt.IDJailbreak, prompt.IDChatHistory} {
		err := s.Delete(id)
		if !errors.Is(err, errors.ErrProtectedPrompt) {
			t.Errorf("Delete(%q) error = %v, want PROTECTED_PROMPT", id, err)
		}
		if _, ok := s.Get(id); !ok {
			t.Errorf("protected fragment %q should survive delete attempt", id)
		}
	}
}

func TestPromptStore_DeleteMissing(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	if err := s.Delete("ghost"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestPromptStore_DeleteUserFragment(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	s.Upsert(prompt.Prompt{Identifier: "custom1", Content: "hello"})
	if err := s.Delete("custom1"); err != nil {
		t.Fatalf("Delete(custom1) failed: %v", err)
	}
	if _, ok := s.Get("custom1"); ok {
		t.Error("deleted fragment should be gone")
	}
}

func TestPromptStore_GetReturnsCopy(t *testing.T) {
	s := NewPromptStore(prompt.PolicyConfig{})
	s.Upsert(prompt.Prompt{Identifier: "a", Content: "one"})
	p, _ := s.Get("a")
	p.Content = "mutated"
	again, _ := s.Get("a")
	if again.Content != "one" {
		t.Error("Get should return a copy, not a live reference")
	}
}

func TestOrderStore_GetMissingScope(t *testing.T) {
	s := NewOrderStore()
	entries := s.Get("nobody")
	if entries == nil {
		t.Fatal("Get should never return nil")
	}
	if len(entries) != 0 {
		t.Errorf("missing scope should yield empty sequence, got %d entries", len(entries))
	}
}

func TestOrderStore_ReplaceDefensiveCopy(t *testing.T) {
	s := NewOrderStore()
	src := []prompt.OrderEntry{{Identifier: "a", Enabled: true}}
	s.Replace("global", src)

	src[0].Enabled = false
	got := s.Get("global")
	if !got[0].Enabled {
		t.Error("Replace should deep-copy the incoming list")
	}

	got[0].Identifier = "mutated"
	if again := s.Get("global"); again[0].Identifier != "a" {
		t.Error("Get should return a copy")
	}
}

func TestOrderStore_RemoveAndFind(t *testing.T) {
	s := NewOrderStore()
	s.Replace("c1", []prompt.OrderEntry{{Identifier: "a", Enabled: true}})

	if _, ok := s.FindEntry("c1", "a"); !ok {
		t.Error("FindEntry should locate existing entry")
	}
	if _, ok := s.FindEntry("c1", "b"); ok {
		t.Error("FindEntry should miss absent entry")
	}

	s.Remove("c1")
	if s.Has("c1") {
		t.Error("Remove should drop the scope row entirely")
	}
}

func TestOrderStore_SetEnabled(t *testing.T) {
	s := NewOrderStore()
	s.Replace("global", []prompt.OrderEntry{{Identifier: "a", Enabled: true}})

	if !s.SetEnabled("global", "a", false) {
		t.Fatal("SetEnabled should report success for existing entry")
	}
	e, _ := s.FindEntry("global", "a")
	if e.Enabled {
		t.Error("entry should be disabled")
	}
	if s.SetEnabled("global", "ghost", true) {
		t.Error("SetEnabled should report failure for missing entry")
	}
}
