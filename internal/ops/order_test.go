package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

func TestSetOrderNormalizes(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	if _, err := Compose(ctx, database, testConfig(), ComposeInput{}); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	out, err := SetOrder(ctx, database, testConfig(), SetOrderInput{
		Entries: []prompt.OrderEntry{
			{Identifier: prompt.IDJailbreak, Enabled: true},
			{Identifier: prompt.IDMain, Enabled: true},
			{Identifier: prompt.IDMain, Enabled: false}, // duplicate collapses
			{Identifier: "danglingRef", Enabled: true},  // unknown prunes
		},
	})
	if err != nil {
		t.Fatalf("SetOrder failed: %v", err)
	}

	if len(out.Entries) != 2 {
		t.Fatalf("normalized to %d entries, want 2: %v", len(out.Entries), out.Entries)
	}
	if out.Entries[0].Identifier != prompt.IDJailbreak || out.Entries[1].Identifier != prompt.IDMain {
		t.Errorf("order not preserved: %v", out.Entries)
	}
}

func TestSetOrderValidation(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	_, err := SetOrder(ctx, database, testConfig(), SetOrderInput{
		Entries: []prompt.OrderEntry{{Identifier: ""}},
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty identifier error = %v, want INVALID_REQUEST", err)
	}
}

func TestResetOrderReseedsCanonical(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	if _, err := SetOrder(ctx, database, testConfig(), SetOrderInput{
		Entries: []prompt.OrderEntry{{Identifier: prompt.IDMain, Enabled: true}},
	}); err != nil {
		t.Fatalf("SetOrder failed: %v", err)
	}

	out, err := ResetOrder(ctx, database, testConfig(), ResetOrderInput{})
	if err != nil {
		t.Fatalf("ResetOrder failed: %v", err)
	}
	if len(out.Entries) != 11 {
		t.Errorf("reset canonical order has %d entries, want the 11 defaults", len(out.Entries))
	}
}

func TestResetOrderNonCanonicalScope(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	if _, err := SetOrder(ctx, database, testConfig(), SetOrderInput{
		ScopeID: "char-42",
		Entries: []prompt.OrderEntry{{Identifier: prompt.IDMain, Enabled: true}},
	}); err != nil {
		t.Fatalf("SetOrder failed: %v", err)
	}

	out, err := ResetOrder(ctx, database, testConfig(), ResetOrderInput{ScopeID: "char-42"})
	if err != nil {
		t.Fatalf("ResetOrder failed: %v", err)
	}
	if len(out.Entries) != 0 {
		t.Errorf("non-canonical reset should leave no list, got %v", out.Entries)
	}
}

func TestShowOrderJoinsFragmentMetadata(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	if _, err := Compose(ctx, database, testConfig(), ComposeInput{}); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	out, err := ShowOrder(ctx, database, testConfig(), ShowOrderInput{})
	if err != nil {
		t.Fatalf("ShowOrder failed: %v", err)
	}
	if len(out.Rows) != 11 {
		t.Fatalf("%d rows, want 11", len(out.Rows))
	}
	if out.Rows[0].Identifier != prompt.IDMain || !out.Rows[0].System {
		t.Errorf("first row = %+v, want main with system flag", out.Rows[0])
	}

	var sawMarker bool
	for _, row := range out.Rows {
		if row.Marker {
			sawMarker = true
		}
	}
	if !sawMarker {
		t.Error("marker rows should carry their flag")
	}
}
