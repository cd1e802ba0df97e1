package rendezvous

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Sender is the send-only capability of a Channel, mirroring the teacher
// actor package's TellOnlyRef/ActorRef split: a caller can be handed a
// Sender[T] to restrict it from ever receiving.
type Sender[T any] interface {
	Send(ctx context.Context, v T) error
	SendAsync(ctx context.Context, v T) Handle[struct{}]
	TrySend(v T) bool
	Close()
	IsClosed() bool
}

// Receiver is the receive-only capability of a Channel.
type Receiver[T any] interface {
	Receive(ctx context.Context) (T, error)
	ReceiveAsync(ctx context.Context) Handle[T]
	TryReceive() (T, bool)
}

// Channel is a typed, bounded, FIFO communication primitive between
// independently scheduled goroutines. It combines a ring buffer with three
// FIFO wait queues (pending senders, pending receivers, pending selectors)
// behind a single mutex. Every value sent is delivered to exactly one
// receiver.
type Channel[T any] struct {
	mu sync.Mutex

	buf       *ringBuffer[T]
	senders   *waitQueue[*senderWaiter[T]]
	receivers *waitQueue[*receiverWaiter[T]]
	selects   *waitQueue[*Waiter]

	closed     bool
	closedFlag atomic.Bool
}

// Compile-time assertions that Channel satisfies the narrow capability
// interfaces and the Selectable contract.
var (
	_ Sender[int]   = (*Channel[int])(nil)
	_ Receiver[int] = (*Channel[int])(nil)
	_ Selectable    = (*Channel[int])(nil)
)

// NewChannel creates a Channel with the given capacity. capacity must be at
// least 1; otherwise NewChannel returns an InvalidArgumentError.
func NewChannel[T any](capacity int) (*Channel[T], error) {
	if capacity < 1 {
		return nil, &InvalidArgumentError{
			Msg: fmt.Sprintf(
				"rendezvous: capacity must be >= 1, got %d",
				capacity,
			),
		}
	}

	return &Channel[T]{
		buf:       newRingBuffer[T](capacity),
		senders:   &waitQueue[*senderWaiter[T]]{},
		receivers: &waitQueue[*receiverWaiter[T]]{},
		selects:   &waitQueue[*Waiter]{},
	}, nil
}

// trySendOrPark implements the non-blocking portion of Send shared by Send
// and SendAsync: it either completes the send immediately (returning
// completed=true) or parks a senderWaiter and returns it for the caller to
// wait on.
func (c *Channel[T]) trySendOrPark(v T) (completed bool, err error, parked *senderWaiter[T]) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return true, ErrChannelClosed, nil
	}

	switch {
	// Buffer has room and isn't empty: by I3, no receiver can be parked,
	// so there's nothing to hand off to directly.
	case c.buf.count > 0 && !c.buf.isFull():
		c.buf.enqueue(v)
		c.mu.Unlock()

		return true, nil, nil

	// Buffer is empty: either hand off directly to a parked receiver
	// (the rendezvous path, which bypasses the buffer and the selects
	// queue entirely — see SPEC_FULL.md section 9), or buffer the value and wake one
	// parked selector.
	case c.buf.isEmpty():
		if rw, ok := c.receivers.dequeue(); ok {
			rw.value = v
			c.mu.Unlock()

			close(rw.done)

			return true, nil, nil
		}

		c.buf.enqueue(v)
		w, hasWaiter := c.selects.dequeue()
		c.mu.Unlock()

		if hasWaiter {
			log.TraceS(context.Background(), "Firing parked selector",
				"waiter_id", w.ID())
			w.SetResult(true)
		}

		return true, nil, nil

	// Buffer is full: park.
	default:
		sw := &senderWaiter[T]{value: v, done: make(chan struct{})}
		c.senders.enqueue(sw)
		c.mu.Unlock()

		return false, nil, sw
	}
}

// Send blocks until v is accepted by the channel, ctx is cancelled, or the
// channel is closed. Closing never refuses an already in-flight send that
// started before Close: a parked sender is only removed from the queue if
// ctx is cancelled before a receiver services it (see SPEC_FULL.md section
// 4.3 for the cancellation race resolution).
func (c *Channel[T]) Send(ctx context.Context, v T) error {
	completed, err, sw := c.trySendOrPark(v)
	if completed {
		return err
	}

	select {
	case <-sw.done:
		return nil

	case <-ctx.Done():
		c.mu.Lock()
		removed := c.senders.remove(sw)
		c.mu.Unlock()

		if removed {
			log.TraceS(ctx, "Send cancelled while parked")
			return ctx.Err()
		}

		// Already being serviced by a concurrent receiver; the value
		// is committed, so honor that instead of fabricating a
		// cancellation on top of it.
		<-sw.done
		return nil
	}
}

// TrySend attempts to send v without blocking. It returns false if the
// channel is closed or the buffer is full and no receiver is waiting;
// otherwise it returns true.
func (c *Channel[T]) TrySend(v T) bool {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return false
	}

	switch {
	case c.buf.count > 0 && !c.buf.isFull():
		c.buf.enqueue(v)
		c.mu.Unlock()

		return true

	case c.buf.isEmpty():
		if rw, ok := c.receivers.dequeue(); ok {
			rw.value = v
			c.mu.Unlock()

			close(rw.done)

			return true
		}

		c.buf.enqueue(v)
		w, hasWaiter := c.selects.dequeue()
		c.mu.Unlock()

		if hasWaiter {
			log.TraceS(context.Background(), "Firing parked selector",
				"waiter_id", w.ID())
			w.SetResult(true)
		}

		return true

	default:
		c.mu.Unlock()
		return false
	}
}

// SendAsync is identical in semantics to Send, except suspension is
// non-blocking for the caller: it returns immediately with a Handle that
// completes when the send completes (or has already completed, for the
// fast paths).
func (c *Channel[T]) SendAsync(ctx context.Context, v T) Handle[struct{}] {
	h := newHandle[struct{}]()

	completed, err, sw := c.trySendOrPark(v)
	if completed {
		if err != nil {
			h.complete(fn.Err[struct{}](err))
		} else {
			h.complete(fn.Ok(struct{}{}))
		}

		return h
	}

	go func() {
		select {
		case <-sw.done:
			h.complete(fn.Ok(struct{}{}))

		case <-ctx.Done():
			c.mu.Lock()
			removed := c.senders.remove(sw)
			c.mu.Unlock()

			if removed {
				h.complete(fn.Err[struct{}](ctx.Err()))
				return
			}

			<-sw.done
			h.complete(fn.Ok(struct{}{}))
		}
	}()

	return h
}

// tryReceiveOrPark implements the non-blocking portion of Receive shared by
// Receive and ReceiveAsync.
func (c *Channel[T]) tryReceiveOrPark() (completed bool, v T, err error, parked *receiverWaiter[T]) {
	c.mu.Lock()

	if !c.buf.isEmpty() {
		val := c.buf.dequeue()

		// A sender parked behind a full buffer has necessarily been
		// waiting longer than anything already buffered (I2), so its
		// value is enqueued next, preserving global FIFO order (I6).
		sw, hasSender := c.senders.dequeue()
		if hasSender {
			c.buf.enqueue(sw.value)
		}
		c.mu.Unlock()

		if hasSender {
			close(sw.done)
		}

		return true, val, nil, nil
	}

	if c.closed {
		c.mu.Unlock()

		var zero T
		return true, zero, ErrChannelClosed, nil
	}

	rw := &receiverWaiter[T]{done: make(chan struct{})}
	c.receivers.enqueue(rw)
	c.mu.Unlock()

	var zero T
	return false, zero, nil, rw
}

// Receive blocks until a value is available, ctx is cancelled, or the
// channel is closed with nothing left to deliver.
func (c *Channel[T]) Receive(ctx context.Context) (T, error) {
	completed, v, err, rw := c.tryReceiveOrPark()
	if completed {
		return v, err
	}

	select {
	case <-rw.done:
		return rw.value, rw.err

	case <-ctx.Done():
		c.mu.Lock()
		removed := c.receivers.remove(rw)
		c.mu.Unlock()

		if removed {
			log.TraceS(ctx, "Receive cancelled while parked")

			var zero T
			return zero, ctx.Err()
		}

		// Already fulfilled by a concurrent sender or Close.
		<-rw.done
		return rw.value, rw.err
	}
}

// TryReceive attempts to receive a value without blocking. It never parks:
// the second return value is false if the buffer is empty, whether the
// channel is open or closed.
func (c *Channel[T]) TryReceive() (T, bool) {
	c.mu.Lock()

	if c.buf.isEmpty() {
		c.mu.Unlock()

		var zero T
		return zero, false
	}

	v := c.buf.dequeue()
	sw, hasSender := c.senders.dequeue()
	if hasSender {
		c.buf.enqueue(sw.value)
	}
	c.mu.Unlock()

	if hasSender {
		close(sw.done)
	}

	return v, true
}

// ReceiveAsync is identical in semantics to Receive, except suspension is
// non-blocking for the caller.
func (c *Channel[T]) ReceiveAsync(ctx context.Context) Handle[T] {
	h := newHandle[T]()

	completed, v, err, rw := c.tryReceiveOrPark()
	if completed {
		if err != nil {
			h.complete(fn.Err[T](err))
		} else {
			h.complete(fn.Ok(v))
		}

		return h
	}

	go func() {
		select {
		case <-rw.done:
			if rw.err != nil {
				h.complete(fn.Err[T](rw.err))
				return
			}
			h.complete(fn.Ok(rw.value))

		case <-ctx.Done():
			c.mu.Lock()
			removed := c.receivers.remove(rw)
			c.mu.Unlock()

			if removed {
				h.complete(fn.Err[T](ctx.Err()))
				return
			}

			<-rw.done
			if rw.err != nil {
				h.complete(fn.Err[T](rw.err))
				return
			}
			h.complete(fn.Ok(rw.value))
		}
	}()

	return h
}

// Close marks the channel closed. It is idempotent. Every parked Receiver
// is cancelled with ErrChannelClosed. Parked Senders and any buffered
// values are left untouched so that already-accepted sends can still be
// drained by a subsequent Receive/TryReceive — see SPEC_FULL.md section 9
// for why parked senders are deliberately not cancelled here.
func (c *Channel[T]) Close() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closedFlag.Store(true)

	var toCancel []*receiverWaiter[T]
	for {
		rw, ok := c.receivers.dequeue()
		if !ok {
			break
		}
		toCancel = append(toCancel, rw)
	}
	c.mu.Unlock()

	log.DebugS(context.Background(), "Channel closing",
		"cancelled_receivers", len(toCancel),
		"buffered", c.buf.count)

	for _, rw := range toCancel {
		rw.err = ErrChannelClosed
		close(rw.done)
	}
}

// IsClosed reports whether Close has been called. The read is lock-free.
func (c *Channel[T]) IsClosed() bool {
	return c.closedFlag.Load()
}

// AddWaiter implements Selectable. It enqueues w in the selects queue
// unless the channel is immediately receivable (buffer non-empty), in which
// case w fires right away without being queued.
func (c *Channel[T]) AddWaiter(w *Waiter) {
	c.mu.Lock()

	immediate := !c.buf.isEmpty()
	if !immediate {
		c.selects.enqueue(w)
	}
	c.mu.Unlock()

	if immediate {
		log.TraceS(context.Background(), "Selector fired immediately",
			"waiter_id", w.ID())
		w.SetResult(true)
	} else {
		log.TraceS(context.Background(), "Selector parked",
			"waiter_id", w.ID())
	}
}

// RemoveWaiter implements Selectable. It is a no-op if w is not (or is no
// longer) queued.
func (c *Channel[T]) RemoveWaiter(w *Waiter) {
	c.mu.Lock()
	removed := c.selects.remove(w)
	c.mu.Unlock()

	if removed {
		log.TraceS(context.Background(), "Selector removed",
			"waiter_id", w.ID())
	}
}
