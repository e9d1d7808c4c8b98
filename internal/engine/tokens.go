package engine

import (
	"context"
	"sync"

	"github.com/hpungsan/loom/internal/counting"
	"github.com/hpungsan/loom/internal/prompt"
)

// Accountant wraps an injected token counter and maps fragment identifiers
// to their last-computed counts. Recompute is full-replace, never
// partial-merge, so stale entries cannot drift; a newer call's results
// supersede an older one via a generation counter.
type Accountant struct {
	counter counting.Counter

	mu     sync.Mutex
	gen    uint64
	counts map[string]int
}

// NewAccountant creates an Accountant. A nil counter means every fragment
// is estimated with the character-weighted fallback.
func NewAccountant(counter counting.Counter) *Accountant {
	return &Accountant{
		counter: counter,
		counts:  make(map[string]int),
	}
}

// Recompute counts every message in the collection, tags the messages with
// their counts, and replaces the accountant's recorded state. A counting
// failure for one fragment degrades to the fallback estimate and
// accounting continues. The returned map is keyed by fragment identifier.
func (a *Accountant) Recompute(ctx context.Context, c *prompt.Collection) (map[string]int, int) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	counts := make(map[string]int, len(c.Messages))
	total := 0
	for i := range c.Messages {
		n := a.count(ctx, c.Messages[i].Content)
		c.Messages[i].Tokens = n
		counts[c.Messages[i].Identifier] = n
		total += n
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// A newer recompute started while this one was counting; its eventual
	// result is authoritative, so this one is discarded.
	if a.gen != gen {
		return counts, total
	}
	a.counts = make(map[string]int, len(counts))
	for id, n := range counts {
		a.counts[id] = n
	}
	return counts, total
}

// count invokes the injected counter, falling back to the deterministic
// estimator when the counter is absent or fails.
func (a *Accountant) count(ctx context.Context, content string) int {
	if content == "" {
		return 0
	}
	if a.counter != nil {
		if n, err := a.counter(ctx, content); err == nil {
			return n
		}
	}
	return counting.Estimate(content)
}

// Get returns the recorded count for a fragment identifier.
func (a *Accountant) Get(identifier string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, ok := a.counts[identifier]
	return n, ok
}

// Total returns the sum of all recorded counts.
func (a *Accountant) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, n := range a.counts {
		total += n
	}
	return total
}
