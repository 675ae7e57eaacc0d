package pipeline

import "context"

// Attempt is one step of a fallback chain. It reports ok=false when the
// step could not produce a value; the chain then moves on.
type Attempt[T any] func(ctx context.Context) (T, bool)

// FirstOf runs attempts in order and returns the first successful value.
// Attempts after the first success are not run.
func FirstOf[T any](ctx context.Context, attempts ...Attempt[T]) (T, bool) {
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			break
		}
		if v, ok := attempt(ctx); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
