package actor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// ErrNoActorsAvailable is returned by a RoutingStrategy when no actors are
// currently registered under the service key being routed.
var ErrNoActorsAvailable = fmt.Errorf("no actors available for service")

// RoutingStrategy selects one actor from a set of candidates to receive the
// next message sent through a Router.
type RoutingStrategy[M Message, R any] interface {
	// Select picks one of actors to receive the next message. It returns
	// ErrNoActorsAvailable if actors is empty.
	Select(actors []ActorRef[M, R]) (ActorRef[M, R], error)
}

// roundRobinStrategy cycles through the candidate actors in registration
// order, wrapping back to the first once it reaches the end.
type roundRobinStrategy[M Message, R any] struct {
	next atomic.Uint64
}

// NewRoundRobinStrategy creates the default RoutingStrategy used by
// ServiceKey.Ref.
func NewRoundRobinStrategy[M Message, R any]() RoutingStrategy[M, R] {
	return &roundRobinStrategy[M, R]{}
}

// Select implements RoutingStrategy.
func (s *roundRobinStrategy[M, R]) Select(
	actors []ActorRef[M, R],
) (ActorRef[M, R], error) {

	if len(actors) == 0 {
		return nil, ErrNoActorsAvailable
	}

	idx := s.next.Add(1) % uint64(len(actors))
	return actors[idx], nil
}

// Router is a virtual ActorRef that load-balances messages across every
// actor currently registered under a ServiceKey. It re-queries the
// Receptionist on every call, so actors that register or unregister after
// the Router is created are picked up automatically — this is what gives
// callers location transparency (see ServiceKey.Ref).
type Router[M Message, R any] struct {
	id           string
	receptionist *Receptionist
	key          ServiceKey[M, R]
	strategy     RoutingStrategy[M, R]
	dlo          ActorRef[Message, any]
}

// NewRouter creates a Router over every actor registered under key in r,
// selecting among them via strategy. dlo receives Tell messages that cannot
// be routed because no actor is currently registered.
func NewRouter[M Message, R any](r *Receptionist, key ServiceKey[M, R],
	strategy RoutingStrategy[M, R], dlo ActorRef[Message, any],
) *Router[M, R] {

	return &Router[M, R]{
		id:           fmt.Sprintf("router(%s)", key.name),
		receptionist: r,
		key:          key,
		strategy:     strategy,
		dlo:          dlo,
	}
}

// ID implements BaseActorRef.
func (rt *Router[M, R]) ID() string {
	return rt.id
}

// Tell implements TellOnlyRef. The message is routed to one actor selected
// by the strategy; if none are registered, it is sent to the dead letter
// office instead.
func (rt *Router[M, R]) Tell(ctx context.Context, msg M) {
	actors := FindInReceptionist(rt.receptionist, rt.key)

	target, err := rt.strategy.Select(actors)
	if err != nil {
		if rt.dlo != nil {
			rt.dlo.Tell(ctx, msg)
		}
		return
	}

	target.Tell(ctx, msg)
}

// Ask implements ActorRef. The message is routed to one actor selected by
// the strategy; if none are registered, the returned Future resolves to
// ErrNoActorsAvailable immediately.
func (rt *Router[M, R]) Ask(ctx context.Context, msg M) Future[R] {
	actors := FindInReceptionist(rt.receptionist, rt.key)

	target, err := rt.strategy.Select(actors)
	if err != nil {
		promise := NewPromise[R]()
		promise.Complete(fn.Err[R](err))
		return promise.Future()
	}

	return target.Ask(ctx, msg)
}

var _ ActorRef[Message, any] = (*Router[Message, any])(nil)
