package ui

import "context"

// Awaitable is a pending external operation a wait-promise step suspends on.
//
// Await blocks until the operation settles, returning the resolved value or
// the rejection reason. Await must be safe to call exactly once per run.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// AwaitFunc adapts a function to Awaitable.
type AwaitFunc func(ctx context.Context) (any, error)

// Await implements Awaitable.
func (f AwaitFunc) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

// Resolved returns an Awaitable that immediately resolves to v.
func Resolved(v any) Awaitable {
	return AwaitFunc(func(context.Context) (any, error) {
		return v, nil
	})
}

// Rejected returns an Awaitable that immediately rejects with err.
func Rejected(err error) Awaitable {
	return AwaitFunc(func(context.Context) (any, error) {
		return nil, err
	})
}

// FromChannel returns an Awaitable that resolves with the first value
// received from ch, or rejects when the context is cancelled first.
func FromChannel[T any](ch <-chan T) Awaitable {
	return AwaitFunc(func(ctx context.Context) (any, error) {
		select {
		case v := <-ch:
			return v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}
