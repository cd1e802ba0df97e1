package actor

import (
	"context"
	"iter"
	"sync"

	"github.com/roasbeef/rendezvous"
)

// ChannelMailbox is a Mailbox implementation backed by a Channel. Nearly all
// of the bookkeeping a hand-rolled mailbox would otherwise need — the
// closed-flag, the full/empty buffer logic, the parked-sender/receiver
// handoff — already lives in Channel, so this type is reduced to an adapter
// between the Mailbox contract and the Channel API, plus the actor-lifecycle
// context that a generic Channel knows nothing about.
type ChannelMailbox[M Message, R any] struct {
	// ch is the underlying channel used to store envelopes.
	ch *rendezvous.Channel[envelope[M, R]]

	// closeOnce ensures Close() is executed exactly once.
	closeOnce sync.Once

	// actorCtx is the context governing the actor's lifecycle. When this
	// context is cancelled, send operations will fail and receive
	// operations will terminate.
	actorCtx context.Context
}

// NewChannelMailbox creates a new channel-based mailbox with the given
// capacity and actor context. If capacity is 0 or negative, it defaults to 1
// to ensure the mailbox is buffered.
func NewChannelMailbox[M Message, R any](
	actorCtx context.Context, capacity int,
) *ChannelMailbox[M, R] {
	if capacity <= 0 {
		capacity = 1
	}

	ch, err := rendezvous.NewChannel[envelope[M, R]](capacity)
	if err != nil {
		// capacity is normalized to >= 1 above, so NewChannel cannot
		// reject it.
		panic(err)
	}

	return &ChannelMailbox[M, R]{
		ch:       ch,
		actorCtx: actorCtx,
	}
}

// Send attempts to send an envelope to the mailbox. It blocks until either the
// envelope is accepted, the caller's context is cancelled, or the actor's
// context is cancelled. Returns true if the envelope was successfully sent,
// false otherwise.
func (m *ChannelMailbox[M, R]) Send(ctx context.Context,
	env envelope[M, R],
) bool {
	// Fast-path rejection when either context is already done, mirroring
	// the pre-lock check the native-channel mailbox used to perform.
	if ctx.Err() != nil {
		return false
	}
	if m.actorCtx.Err() != nil {
		return false
	}

	sendCtx, cancel := mergeContexts(ctx, m.actorCtx)
	defer cancel()

	if err := m.ch.Send(sendCtx, env); err != nil {
		log.TraceS(ctx, "Mailbox send failed",
			"msg_type", env.message.MessageType(), "err", err)

		return false
	}

	log.TraceS(ctx, "Mailbox send succeeded",
		"msg_type", env.message.MessageType())

	return true
}

// TrySend attempts to send an envelope to the mailbox without blocking. It
// returns true if the envelope was successfully sent, false if the mailbox is
// full, closed, or the actor has been terminated.
func (m *ChannelMailbox[M, R]) TrySend(env envelope[M, R]) bool {
	// Check if the actor has been terminated before attempting to send.
	// This ensures TrySend respects the actor's lifecycle consistently
	// with Send.
	if m.actorCtx.Err() != nil {
		return false
	}

	return m.ch.TrySend(env)
}

// Receive returns an iterator over envelopes in the mailbox. The iterator will
// yield envelopes as they arrive and will stop when the provided context is
// cancelled, the actor's context is cancelled, or the mailbox is closed and
// drained.
func (m *ChannelMailbox[M, R]) Receive(
	ctx context.Context,
) iter.Seq[envelope[M, R]] {
	return func(yield func(envelope[M, R]) bool) {
		recvCtx, cancel := mergeContexts(ctx, m.actorCtx)
		defer cancel()

		for {
			// Check both contexts first: the channel hands out buffered
			// envelopes even after cancellation, and those must stay
			// queued for Drain.
			if ctx.Err() != nil || m.actorCtx.Err() != nil {
				return
			}

			env, err := m.ch.Receive(recvCtx)
			if err != nil {
				return
			}

			if !yield(env) {
				return
			}
		}
	}
}

// Close closes the mailbox, preventing any further sends. This method is safe
// to call multiple times; only the first call will have an effect.
func (m *ChannelMailbox[M, R]) Close() {
	m.closeOnce.Do(func() {
		log.DebugS(m.actorCtx, "Mailbox closing")

		m.ch.Close()
	})
}

// IsClosed returns true if the mailbox has been closed. This method performs a
// lock-free read using atomic operations.
func (m *ChannelMailbox[M, R]) IsClosed() bool {
	return m.ch.IsClosed()
}

// Drain returns an iterator over any remaining envelopes in the mailbox. This
// should only be called after Close() has been invoked. The iterator will
// yield all remaining envelopes and then stop. If the mailbox is not closed,
// it returns immediately without draining.
func (m *ChannelMailbox[M, R]) Drain() iter.Seq[envelope[M, R]] {
	return func(yield func(envelope[M, R]) bool) {
		if !m.IsClosed() {
			return
		}

		for {
			env, ok := m.ch.TryReceive()
			if !ok {
				return
			}

			if !yield(env) {
				return
			}
		}
	}
}
