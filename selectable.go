package rendezvous

import (
	"sync"

	"github.com/google/uuid"
)

// Selectable is the capability a Select multiplexer depends on: the ability
// to register and unregister a single one-shot "ready" waiter. The Select
// multiplexer never depends on the concrete Channel type, only on this
// interface, so a future non-Channel selectable (e.g. a timer) can plug in.
type Selectable interface {
	// AddWaiter enqueues w in the selects queue. If the selectable is
	// immediately ready (for a Channel, a non-empty buffer), w is fired
	// right away instead of being queued.
	AddWaiter(w *Waiter)

	// RemoveWaiter removes w from the selects queue if it is still
	// there. It is a no-op if w already fired or was never added.
	RemoveWaiter(w *Waiter)
}

// Waiter is a one-shot Boolean signal registered by a Select multiplexer
// with one or more Selectables. Receiving a true result means "a value may
// be ready, come look" — not "a value is reserved for you". Selectors must
// follow up with TryReceive and tolerate false positives.
type Waiter struct {
	id uuid.UUID

	mu     sync.Mutex
	fired  bool
	result chan bool
}

// NewWaiter allocates a fresh, unfired Waiter.
func NewWaiter() *Waiter {
	return &Waiter{
		id:     uuid.New(),
		result: make(chan bool, 1),
	}
}

// ID returns the Waiter's identity, used for log correlation. RemoveWaiter
// removes a Waiter by pointer identity, not by this ID.
func (w *Waiter) ID() uuid.UUID {
	return w.id
}

// SetResult fires the waiter with the given readiness value. It is a no-op
// returning false if the waiter already fired; double-fires are safe but
// only the first one is observed, satisfying I5.
func (w *Waiter) SetResult(ready bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fired {
		return false
	}
	w.fired = true
	w.result <- ready

	return true
}

// Result returns the channel that receives the waiter's single result.
func (w *Waiter) Result() <-chan bool {
	return w.result
}
