// Package rendezvous implements a typed, bounded, first-in-first-out
// communication primitive between independently scheduled goroutines, along
// with a companion multi-way Select mechanism.
//
// A Channel[T] behaves like a buffered Go channel with one difference: it is
// built from first principles (a ring buffer plus three FIFO wait queues
// guarded by a single mutex) rather than delegating to the runtime's native
// chan type. This lets the package expose a richer, explicitly documented
// contract: non-blocking Try variants, async Handle-returning variants, and
// a Selectable contract so a Select multiplexer can wait on several
// heterogeneous channels at once.
//
// Every value sent on a Channel is delivered to exactly one receiver; there
// is no broadcast, no priority ordering, and no persistence. Close is
// irreversible but an already-closed channel remains drainable: buffered
// values survive Close and can still be received until exhausted.
package rendezvous
