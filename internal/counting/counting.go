// Package counting provides token counting for composed prompt fragments.
// The engine consumes an injected Counter; this package supplies the
// deterministic character-weighted estimator used as a fallback and an
// Anthropic-backed counter for callers with an API key.
package counting

import "context"

// Counter counts the tokens of a piece of resolved fragment content.
// Implementations may call out to a provider and may fail; callers degrade
// to Estimate on error.
type Counter func(ctx context.Context, content string) (int, error)
