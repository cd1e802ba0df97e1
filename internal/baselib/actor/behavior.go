package actor

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// FunctionBehavior adapts a plain function into an ActorBehavior. It is
// useful for actors whose logic doesn't need to hold state beyond what the
// wrapped closure already captures.
type FunctionBehavior[M Message, R any] struct {
	fn func(context.Context, M) fn.Result[R]
}

// NewFunctionBehavior wraps fn as an ActorBehavior.
func NewFunctionBehavior[M Message, R any](
	fn func(context.Context, M) fn.Result[R],
) *FunctionBehavior[M, R] {

	return &FunctionBehavior[M, R]{fn: fn}
}

// Receive implements ActorBehavior.
func (f *FunctionBehavior[M, R]) Receive(ctx context.Context,
	msg M) fn.Result[R] {

	return f.fn(ctx, msg)
}

var _ ActorBehavior[Message, any] = (*FunctionBehavior[Message, any])(nil)
