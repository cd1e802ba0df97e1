package rendezvous

import "context"

// Case pairs a Selectable with the logic to attempt it optimistically. Build
// one with ReceiveCase.
type Case struct {
	sel Selectable
	try func() bool
}

// ReceiveCase builds a Case around a receive attempt on ch: if a value is
// immediately available, onValue is invoked with it and the case is
// reported ready; otherwise the case reports not-ready and Select will park
// a shared Waiter on ch (among the other cases) until one of them might have
// something.
//
// Because the type parameter is closed over here rather than threaded
// through Select itself, a single Select call can multiplex Channels of
// different element types — the Go-idiomatic substitute for reflect.Select.
func ReceiveCase[T any](ch *Channel[T], onValue func(T)) Case {
	return Case{
		sel: ch,
		try: func() bool {
			v, ok := ch.TryReceive()
			if !ok {
				return false
			}

			onValue(v)
			return true
		},
	}
}

// Select evaluates each case optimistically in order (step 1 of
// SPEC_FULL.md section 4.5). If none is ready, it parks a single shared
// Waiter on every case's Selectable, waits for one of them to signal
// readiness (or for ctx to be cancelled), then retries from the top. The
// selects queue is notification-only: a wakeup means "go look", not "a
// value is reserved for you", so Select always re-attempts every case
// rather than assuming the case that woke it still has something (the
// false-positive tolerance SPEC_FULL.md section 8 scenario 6 requires).
//
// Tie-breaking among simultaneously-ready cases is deterministic: the
// caller-supplied order. Select blocks until some case fires or ctx is
// cancelled.
func Select(ctx context.Context, cases ...Case) error {
	assertInvariant(len(cases) > 0, "Select called with no cases")

	for {
		for _, c := range cases {
			if c.try() {
				return nil
			}
		}

		w := NewWaiter()
		for _, c := range cases {
			c.sel.AddWaiter(w)
		}

		select {
		case <-w.Result():
		case <-ctx.Done():
			for _, c := range cases {
				c.sel.RemoveWaiter(w)
			}
			return ctx.Err()
		}

		for _, c := range cases {
			c.sel.RemoveWaiter(w)
		}
	}
}
