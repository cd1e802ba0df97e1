package rendezvous

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Handle is this package's realization of an asynchronous completion,
// analogous to the teacher actor package's Future[T]: the result of a
// SendAsync or ReceiveAsync call that hasn't necessarily completed yet.
type Handle[T any] interface {
	// Await blocks until the result is available or ctx is cancelled,
	// then returns it.
	Await(ctx context.Context) fn.Result[T]
}

// handle is the concrete Handle implementation. It is completed at most
// once via complete, matching I5 (every completion signal fires exactly
// once).
type handle[T any] struct {
	done   chan struct{}
	result fn.Result[T]
}

// newHandle allocates an incomplete handle.
func newHandle[T any]() *handle[T] {
	return &handle[T]{done: make(chan struct{})}
}

// complete sets the handle's result and wakes any Await callers. Must be
// called at most once.
func (h *handle[T]) complete(r fn.Result[T]) {
	h.result = r
	close(h.done)
}

// Await implements Handle.
func (h *handle[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-h.done:
		return h.result
	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}
