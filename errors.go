package rendezvous

import (
	"errors"
	"fmt"
)

// InvalidArgumentError is returned by NewChannel when the requested capacity
// is out of range. It is fatal only to the constructor call that produced
// it.
type InvalidArgumentError struct {
	Msg string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

// ErrChannelClosed is the cancellation signal surfaced by Send/Receive (and
// their async/Handle counterparts) when a Channel cannot make progress
// because it has been closed. Callers should check for it with errors.Is
// rather than comparing against a generic error.
var ErrChannelClosed = errors.New("rendezvous: channel closed")

// ContractViolation represents a broken internal invariant: a bug in the
// rendezvous package itself, never a condition callers can trigger through
// normal use. assertInvariant panics with one of these rather than
// returning it, since there is no sensible recovery from a corrupted
// channel.
type ContractViolation struct {
	Msg string
}

// Error implements the error interface.
func (e *ContractViolation) Error() string {
	return fmt.Sprintf("rendezvous: contract violation: %s", e.Msg)
}

// assertInvariant panics with a ContractViolation if cond is false. Used to
// guard the ring buffer's enqueue/dequeue preconditions, which the Channel
// mutex is supposed to make unreachable in practice.
func assertInvariant(cond bool, msg string) {
	if !cond {
		panic(&ContractViolation{Msg: msg})
	}
}
