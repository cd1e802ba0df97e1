package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// future is the concrete Future implementation backing promise. It completes
// at most once, the same one-shot pattern the root package's Handle uses for
// SendAsync/ReceiveAsync completions.
type future[T any] struct {
	done   chan struct{}
	result fn.Result[T]
}

// Await implements Future.
func (f *future[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-f.done:
		return f.result
	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

// ThenApply implements Future. It returns a new Future that resolves to
// apply(v) once f resolves to v, or to f's error if it fails. ctx governs
// only the wait on f, not any work apply itself performs.
func (f *future[T]) ThenApply(ctx context.Context, apply func(T) T) Future[T] {
	next := &future[T]{done: make(chan struct{})}

	go func() {
		val, err := f.Await(ctx).Unpack()
		if err != nil {
			next.result = fn.Err[T](err)
		} else {
			next.result = fn.Ok(apply(val))
		}
		close(next.done)
	}()

	return next
}

// OnComplete implements Future.
func (f *future[T]) OnComplete(ctx context.Context, onDone func(fn.Result[T])) {
	go func() {
		onDone(f.Await(ctx))
	}()
}

// promise is the concrete Promise implementation. Complete is safe to call
// concurrently; only the first call has any effect.
type promise[T any] struct {
	fut  *future[T]
	once sync.Once
}

// NewPromise creates an incomplete Promise. Exactly one Complete call
// resolves its associated Future; later calls are no-ops and return false.
func NewPromise[T any]() Promise[T] {
	return &promise[T]{
		fut: &future[T]{done: make(chan struct{})},
	}
}

// Future implements Promise.
func (p *promise[T]) Future() Future[T] {
	return p.fut
}

// Complete implements Promise.
func (p *promise[T]) Complete(result fn.Result[T]) bool {
	completed := false
	p.once.Do(func() {
		p.fut.result = result
		close(p.fut.done)
		completed = true
	})

	return completed
}
