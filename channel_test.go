package rendezvous

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChannelInvalidCapacity(t *testing.T) {
	t.Parallel()

	_, err := NewChannel[int](0)
	require.Error(t, err)

	var argErr *InvalidArgumentError
	require.ErrorAs(t, err, &argErr)

	_, err = NewChannel[int](-1)
	require.Error(t, err)
}

// TestBufferFillDrain is SPEC_FULL.md scenario 1.
func TestBufferFillDrain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](2)
	require.NoError(t, err)

	require.NoError(t, ch.Send(ctx, 1))
	require.NoError(t, ch.Send(ctx, 2))
	require.False(t, ch.TrySend(3))

	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.True(t, ch.TrySend(3))

	v, err = ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	v, err = ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

// TestClosePreservesBuffered is SPEC_FULL.md scenario 4.
func TestClosePreservesBuffered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](3)
	require.NoError(t, err)

	require.NoError(t, ch.Send(ctx, 1))
	require.NoError(t, ch.Send(ctx, 2))
	ch.Close()

	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	_, err = ch.Receive(ctx)
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestSendOnClosedFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	ch.Close()

	err = ch.Send(ctx, 1)
	require.ErrorIs(t, err, ErrChannelClosed)
	require.False(t, ch.TrySend(1))

	h := ch.SendAsync(ctx, 1)
	res := h.Await(ctx)
	_, resErr := res.Unpack()
	require.ErrorIs(t, resErr, ErrChannelClosed)
}

func TestTryReceiveNeverBlocks(t *testing.T) {
	t.Parallel()

	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	_, ok := ch.TryReceive()
	require.False(t, ok)

	ch.Close()

	_, ok = ch.TryReceive()
	require.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	ch.Close()
	require.True(t, ch.IsClosed())

	// Second call must not panic and must not change observable state.
	require.NotPanics(t, func() { ch.Close() })
	require.True(t, ch.IsClosed())
}

func TestSendContextCancellationWhileParked(t *testing.T) {
	t.Parallel()

	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ch.Send(ctx, 1)) // fills the buffer

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	err = ch.Send(cancelCtx, 2)
	require.ErrorIs(t, err, context.Canceled)

	// The channel must still be usable: draining the original value,
	// then confirming the cancelled send never made it in.
	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, ok := ch.TryReceive()
	require.False(t, ok, "cancelled send must not have left a value buffered")
}

func TestReceiveContextCancellationWhileParked(t *testing.T) {
	t.Parallel()

	ch, err := NewChannel[int](1)
	require.NoError(t, err)

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ch.Receive(cancelCtx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, errors.Is(err, ErrChannelClosed))
}
