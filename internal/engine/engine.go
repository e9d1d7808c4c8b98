package engine

import (
	"sync"

	"github.com/hpungsan/loom/internal/prompt"
)

// Options configures an Engine.
type Options struct {
	// Policy is the identifier deny-list applied to fragment mutations.
	Policy prompt.PolicyConfig

	// Substitutor resolves template tokens at composition time. Defaults
	// to prompt.DefaultSubstitutor.
	Substitutor prompt.Substitutor

	// UserName and CharName are passed through to the substitutor.
	UserName string
	CharName string
}

// Engine ties the PromptStore and OrderStore together and runs
// composition. It is constructor-injected with its collaborators; there
// are no ambient singletons. A single logical thread of control is
// assumed: mutations are atomic with respect to composition.
type Engine struct {
	prompts *PromptStore
	orders  *OrderStore
	opts    Options

	// mu guards order-list registrations scheduled out of band by Compose.
	mu sync.Mutex
	wg sync.WaitGroup
}

// New creates an Engine with empty stores.
func New(opts Options) *Engine {
	if opts.Substitutor == nil {
		opts.Substitutor = prompt.DefaultSubstitutor
	}
	return &Engine{
		prompts: NewPromptStore(opts.Policy),
		orders:  NewOrderStore(),
		opts:    opts,
	}
}

// Prompts returns the fragment store.
func (e *Engine) Prompts() *PromptStore {
	return e.prompts
}

// Orders returns the per-scope order store.
func (e *Engine) Orders() *OrderStore {
	return e.orders
}

// Sanitize repairs the store pair. Call after every structural mutation
// (load, import, preset switch).
func (e *Engine) Sanitize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	Sanitize(e.prompts, e.orders)
}

// Flush waits for order registrations scheduled by Compose to land.
// Callers persist state only after flushing.
func (e *Engine) Flush() {
	e.wg.Wait()
}

// scheduleRegistration appends the identifier to the canonical order out
// of band, so future compositions do not need the fallback scan.
func (e *Engine) scheduleRegistration(identifier string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.orders.FindEntry(prompt.CanonicalScope, identifier); ok {
			return
		}
		e.orders.Append(prompt.CanonicalScope, prompt.OrderEntry{
			Identifier: identifier,
			Enabled:    true,
		})
	}()
}
