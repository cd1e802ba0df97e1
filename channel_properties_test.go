package rendezvous

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCapacityInvariant is property P1: across any sequence of TrySend /
// TryReceive calls (which never block), the buffer never holds more than
// capacity values, as observed from outside the channel.
func TestCapacityInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(t, "capacity")
		ch, err := NewChannel[int](capacity)
		require.NoError(t, err)

		var buffered int
		numOps := rapid.IntRange(1, 200).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			if rapid.Bool().Draw(t, "send") {
				if ch.TrySend(i) {
					buffered++
				}
			} else if buffered > 0 {
				_, ok := ch.TryReceive()
				if ok {
					buffered--
				}
			}

			require.LessOrEqual(t, buffered, capacity)
		}
	})
}

// TestConservationInvariant is property P3: at any quiescent moment (no
// concurrent operations, as here), successful-sends equals
// successful-receives plus what remains buffered.
func TestConservationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		ch, err := NewChannel[int](capacity)
		require.NoError(t, err)

		var sends, receives int
		numOps := rapid.IntRange(1, 100).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			if rapid.Bool().Draw(t, "send") {
				if ch.TrySend(i) {
					sends++
				}
			} else {
				if _, ok := ch.TryReceive(); ok {
					receives++
				}
			}
		}

		// Drain what remains to count it independently of the tallies.
		buffered := 0
		for {
			if _, ok := ch.TryReceive(); !ok {
				break
			}
			buffered++
		}
		require.Equal(t, sends, receives+buffered)
		require.GreaterOrEqual(t, buffered, 0)
		require.LessOrEqual(t, buffered, capacity)
	})
}

// TestCloseMonotonicityAndIdempotency covers P4 and P8: once IsClosed
// returns true it never flips back, no Send succeeds afterward, and a
// second Close call is observationally equivalent to the first.
func TestCloseMonotonicityAndIdempotency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch, err := NewChannel[int](4)
		require.NoError(t, err)

		closeAt := rapid.IntRange(0, 10).Draw(t, "closeAt")
		for i := 0; i < closeAt; i++ {
			ch.TrySend(i)
			require.False(t, ch.IsClosed())
		}

		ch.Close()
		require.True(t, ch.IsClosed())

		extraCloses := rapid.IntRange(0, 5).Draw(t, "extraCloses")
		for i := 0; i < extraCloses; i++ {
			ch.Close()
			require.True(t, ch.IsClosed())
		}

		require.False(t, ch.TrySend(999))

		ctx := context.Background()
		err = ch.Send(ctx, 999)
		require.ErrorIs(t, err, ErrChannelClosed)
	})
}

// TestCloseDoesNotCancelParkedSenders documents the Open Question decision
// recorded in SPEC_FULL.md section 9: Close leaves parked senders alone. A
// sender blocked on a full, then-closed channel only unblocks once a
// receiver drains the channel.
func TestCloseDoesNotCancelParkedSenders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	require.NoError(t, ch.Send(ctx, 1)) // fills the buffer

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- ch.Send(ctx, 2)
	}()

	// Give the sender a chance to park, then close. The parked sender
	// must remain parked, not be cancelled.
	time.Sleep(50 * time.Millisecond)
	ch.Close()

	select {
	case err := <-sendDone:
		t.Fatalf("parked sender completed/cancelled by Close, got err=%v", err)
	default:
	}

	// Drain the buffered value; this lets the parked sender's value
	// move into the buffer and complete it.
	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, <-sendDone)

	v, err = ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}
