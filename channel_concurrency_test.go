package rendezvous

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRendezvous is SPEC_FULL.md scenario 2: a parked Receive meets a Send
// and returns the sent value directly, without the value ever touching the
// buffer.
func TestRendezvous(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		received int
		recvErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		received, recvErr = ch.Receive(ctx)
	}()

	// Give the receiver time to park before sending.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, ch.Send(ctx, 42))
	wg.Wait()

	require.NoError(t, recvErr)
	require.Equal(t, 42, received)

	// The buffer must be empty: the value was handed off directly.
	_, ok := ch.TryReceive()
	require.False(t, ok)
}

// TestCloseCancelsParkedReceiver is SPEC_FULL.md scenario 3.
func TestCloseCancelsParkedReceiver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		recvErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, recvErr = ch.Receive(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	ch.Close()
	wg.Wait()

	require.ErrorIs(t, recvErr, ErrChannelClosed)
}

// TestNoLostWakeups is property P6: if a Receive is parked and a Send
// arrives, the Send completes and the Receive returns, with no other event
// needed. Run many times concurrently to shake out races.
func TestNoLostWakeups(t *testing.T) {
	t.Parallel()

	const rounds = 200

	ctx := context.Background()
	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	for i := 0; i < rounds; i++ {
		var wg sync.WaitGroup
		wg.Add(2)

		resultCh := make(chan int, 1)
		go func() {
			defer wg.Done()
			v, err := ch.Receive(ctx)
			require.NoError(t, err)
			resultCh <- v
		}()

		go func(v int) {
			defer wg.Done()
			require.NoError(t, ch.Send(ctx, v))
		}(i)

		wg.Wait()
		require.Equal(t, i, <-resultCh)
	}
}

// TestFIFOOrderAcrossParkedSenders is property P2: sends from a single
// sender goroutine are received in the same order by a single receiver
// goroutine, even when senders have to park behind a full buffer.
func TestFIFOOrderAcrossParkedSenders(t *testing.T) {
	t.Parallel()

	const n = 500

	ctx := context.Background()
	ch, err := NewChannel[int](4)
	require.NoError(t, err)

	go func() {
		for i := 0; i < n; i++ {
			require.NoError(t, ch.Send(ctx, i))
		}
		ch.Close()
	}()

	for i := 0; i < n; i++ {
		v, err := ch.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}

	_, err = ch.Receive(ctx)
	require.ErrorIs(t, err, ErrChannelClosed)
}

// TestConcurrentSendersAndReceiversPreserveCapacity hammers a small channel
// with many concurrent senders and receivers and checks the channel never
// reports more buffered values than its capacity and every sent value is
// eventually accounted for.
func TestConcurrentSendersAndReceiversPreserveCapacity(t *testing.T) {
	t.Parallel()

	const (
		capacity  = 4
		producers = 8
		perProd   = 50
	)

	ctx := context.Background()
	ch, err := NewChannel[int](capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				require.NoError(t, ch.Send(ctx, i))
			}
		}()
	}

	total := producers * perProd
	received := 0
	done := make(chan struct{})
	go func() {
		for received < total {
			_, err := ch.Receive(ctx)
			require.NoError(t, err)
			received++
		}
		close(done)
	}()

	wg.Wait()
	<-done
	require.Equal(t, total, received)
}
