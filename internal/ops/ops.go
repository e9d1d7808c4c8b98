// Package ops implements the operation layer: each operation loads
// engine state from the database, runs it through the sanitize/compose
// machinery, and persists the result as a single logical mutation.
package ops

import (
	"database/sql"
	"os"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/counting"
	"github.com/hpungsan/loom/internal/db"
	"github.com/hpungsan/loom/internal/engine"
	"github.com/hpungsan/loom/internal/preset"
	"github.com/hpungsan/loom/internal/prompt"
)

// newEngineFor creates an empty Engine configured from cfg.
func newEngineFor(cfg *config.Config) *engine.Engine {
	return engine.New(engine.Options{
		UserName: cfg.UserName,
		CharName: cfg.CharName,
	})
}

// loadEngine builds an Engine from persisted fragments and scope orders
// and sanitizes it. Every operation goes through this so no code path
// ever observes un-repaired state.
func loadEngine(database *sql.DB, cfg *config.Config) (*engine.Engine, error) {
	eng := newEngineFor(cfg)

	prompts, err := db.LoadFragments(database)
	if err != nil {
		return nil, err
	}
	eng.Prompts().ReplaceAll(prompts)

	orders, err := db.LoadScopeOrders(database)
	if err != nil {
		return nil, err
	}
	for scopeID, entries := range orders {
		eng.Orders().Replace(scopeID, entries)
	}

	eng.Sanitize()
	return eng, nil
}

// saveEngine persists the engine's fragments and scope orders. Pending
// async order registrations are flushed first so nothing is lost.
func saveEngine(database *sql.DB, eng *engine.Engine) error {
	eng.Flush()

	if err := db.SaveFragments(database, eng.Prompts().All()); err != nil {
		return err
	}
	return db.SaveScopeOrders(database, collectOrders(eng.Orders()))
}

// collectOrders snapshots every scope's order list.
func collectOrders(orders *engine.OrderStore) map[string][]prompt.OrderEntry {
	out := make(map[string][]prompt.OrderEntry)
	for _, scopeID := range orders.Scopes() {
		out[scopeID] = orders.Get(scopeID)
	}
	return out
}

// buildCounter constructs the configured token counter. A nil return
// means the accountant falls back to the character-weighted estimate.
func buildCounter(cfg *config.Config) counting.Counter {
	if cfg.TokenCounter != config.CounterAnthropic {
		return nil
	}
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	return counting.NewAnthropicCounter(apiKey, cfg.AnthropicModel)
}

// loadManager builds a preset Manager from the persisted preset rows.
func loadManager(database *sql.DB) (*preset.Manager, error) {
	presets, err := db.LoadPresets(database)
	if err != nil {
		return nil, err
	}
	m := preset.NewManager()
	m.Load(presets)
	return m, nil
}

// loadSettings returns the persisted live settings, or the zero value if
// none have been saved yet.
func loadSettings(database *sql.DB) (preset.Settings, error) {
	s, ok, err := db.LoadSettings(database)
	if err != nil {
		return preset.Settings{}, err
	}
	if !ok {
		return preset.Settings{}, nil
	}
	return s, nil
}
