package slideshow

import "github.com/dixieflatline76/Vista/pkg/source"

// DefaultPageSize is the number of photos fetched per list call.
const DefaultPageSize = 10

// Option configures an Engine.
type Option func(*Engine)

// WithOrder sets the ordering policy.
func WithOrder(order Order) Option {
	return func(e *Engine) { e.order = order }
}

// WithRandomStart makes sequential orders begin every cycle at a random offset.
func WithRandomStart(enabled bool) Option {
	return func(e *Engine) { e.randomStart = enabled }
}

// WithSourceSize sets the requested photo size class.
func WithSourceSize(size source.Size) Option {
	return func(e *Engine) { e.size = size }
}

// WithPageSize sets the batch size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}
