// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"reflect"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// RecvResult is the outcome envelope of a receive operation.
// Exactly one of OK, Closed and Aborted holds for a completed
// operation; the zero value from TryRecv means not ready.
type RecvResult[T any] struct {
	// Value is the received value when OK.
	Value T
	// OK reports that a value was delivered.
	OK bool
	// Closed reports end of stream: the channel closed with nothing
	// buffered. Not an error.
	Closed bool
	// Aborted reports cancellation before delivery. Reason carries
	// the cancellation cause.
	Aborted bool
	Reason  error
}

// SendResult is the outcome envelope of a send operation.
// The zero value from TrySend means the channel was full.
type SendResult struct {
	// OK reports that the value was handed to a receiver or buffered.
	OK bool
	// Closed reports the channel was closed; Reason is ErrClosed.
	Closed bool
	// Aborted reports cancellation before delivery; Reason carries
	// the cancellation cause.
	Aborted bool
	Reason  error
}

// Err returns the failure carried by the envelope, or nil.
func (r SendResult) Err() error {
	if r.Closed || r.Aborted {
		return r.Reason
	}
	return nil
}

// Err returns the failure carried by the envelope, or nil.
// End of stream is not a failure.
func (r RecvResult[T]) Err() error {
	if r.Aborted {
		return r.Reason
	}
	return nil
}

// Channel is a typed bounded communication endpoint coupling
// producers with consumers. Capacity zero means every value requires
// a rendezvous between a sender and a receiver; positive capacity
// interposes a FIFO buffer.
//
// All methods are safe for concurrent use. Try operations and Close
// never block; Recv, Send and WaitClose park the calling goroutine
// until a peer arrives, the channel closes, or ctx is cancelled.
type Channel[T any] struct {
	rw[T]
}

// New creates a channel with the given buffer capacity.
// A negative capacity is treated as zero.
func New[T any](capacity int) *Channel[T] {
	if capacity < 0 {
		capacity = 0
	}
	c := &Channel[T]{}
	c.serial = nextSerial()
	if capacity > 0 {
		c.buf = newRingBuffer[T](capacity)
	}
	c.recvs.free = lfq.NewMPMC[*recvWaiter[T]](waiterFreeCap)
	c.sends.free = lfq.NewMPMC[*sendWaiter[T]](waiterFreeCap)
	return c
}

// Cap returns the buffer capacity; zero for unbuffered channels.
func (c *Channel[T]) Cap() int {
	if c.buf == nil {
		return 0
	}
	return len(c.buf.items)
}

// Len returns the current buffer occupancy; zero for unbuffered
// channels.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return 0
	}
	return c.buf.len()
}

// IsClosed reports whether Close has been called. Lock-free.
func (c *Channel[T]) IsClosed() bool {
	return c.closedBit.Load() != 0
}

// Serial returns the serial number assigned to this channel.
func (c *Channel[T]) Serial() Serial {
	return c.serial
}

// TryRecv attempts a receive without blocking. The zero envelope
// (neither OK nor Closed) means no value was ready.
func (c *Channel[T]) TryRecv() RecvResult[T] {
	var fl fireList
	c.mu.Lock()
	res := c.tryRecvLocked(&fl)
	c.mu.Unlock()
	fl.run()
	return res
}

// TrySend attempts a send without blocking. The zero envelope means
// the channel was full; Closed means the channel was closed.
func (c *Channel[T]) TrySend(v T) SendResult {
	var fl fireList
	c.mu.Lock()
	res := c.trySendLocked(v, &fl)
	c.mu.Unlock()
	fl.run()
	return res
}

// Recv receives a value, parking the goroutine until a value or end
// of stream arrives, or ctx is cancelled. The envelope always carries
// the full outcome; err mirrors the envelope's failure so callers may
// check either. A value delivered concurrently with cancellation is
// never dropped: the delivery wins.
func (c *Channel[T]) Recv(ctx context.Context) (RecvResult[T], error) {
	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		return RecvResult[T]{Aborted: true, Reason: cause}, cause
	}
	var fl fireList
	c.mu.Lock()
	res := c.tryRecvLocked(&fl)
	if res.OK || res.Closed {
		c.mu.Unlock()
		fl.run()
		return res, nil
	}
	claim := new(atomix.Uint32)
	done := new(oneshot[RecvResult[T]])
	w, gen := c.parkRecvLocked(claim, func(v T, ok bool) {
		if ok {
			done.resolve(RecvResult[T]{Value: v, OK: true})
		} else {
			done.resolve(RecvResult[T]{Closed: true})
		}
	})
	c.mu.Unlock()
	fl.run()

	var bo iox.Backoff
	for {
		if r, ok := done.poll(); ok {
			return r, nil
		}
		if ctx.Err() != nil {
			c.mu.Lock()
			c.recvs.disconnect(w, gen)
			c.mu.Unlock()
			if claim.CompareAndSwap(claimArmed, claimTaken) {
				cause := context.Cause(ctx)
				return RecvResult[T]{Aborted: true, Reason: cause}, cause
			}
			// Lost the race: a dispatch is in flight.
			return done.settle(), nil
		}
		bo.Wait()
	}
}

// Send delivers v, parking the goroutine until a receiver or buffer
// slot frees up, the channel closes, or ctx is cancelled. The
// envelope always carries the full outcome; err mirrors its failure.
func (c *Channel[T]) Send(ctx context.Context, v T) (SendResult, error) {
	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		return SendResult{Aborted: true, Reason: cause}, cause
	}
	var fl fireList
	c.mu.Lock()
	res := c.trySendLocked(v, &fl)
	if res.OK || res.Closed {
		c.mu.Unlock()
		fl.run()
		return res, res.Err()
	}
	claim := new(atomix.Uint32)
	done := new(oneshot[SendResult])
	w, gen := c.parkSendLocked(v, claim, func(ok bool, err error) {
		if ok {
			done.resolve(SendResult{OK: true})
		} else {
			done.resolve(SendResult{Closed: true, Reason: err})
		}
	})
	c.mu.Unlock()
	fl.run()

	var bo iox.Backoff
	for {
		if r, ok := done.poll(); ok {
			return r, r.Err()
		}
		if ctx.Err() != nil {
			c.mu.Lock()
			c.sends.disconnect(w, gen)
			c.mu.Unlock()
			if claim.CompareAndSwap(claimArmed, claimTaken) {
				cause := context.Cause(ctx)
				return SendResult{Aborted: true, Reason: cause}, cause
			}
			r := done.settle()
			return r, r.Err()
		}
		bo.Wait()
	}
}

// Close closes the channel. Parked senders fail with ErrClosed,
// parked receivers observe end of stream, and buffered values remain
// drainable. Reports true exactly once; later calls are no-ops.
func (c *Channel[T]) Close() bool {
	var fl fireList
	c.mu.Lock()
	ok := c.closeLocked(&fl)
	c.mu.Unlock()
	fl.run()
	return ok
}

// WaitClose parks until the channel closes or ctx is cancelled.
// Returns nil immediately if already closed.
func (c *Channel[T]) WaitClose(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.done == nil {
		c.done = new(oneshot[struct{}])
	}
	d := c.done
	c.mu.Unlock()
	if _, ok := d.await(ctx); !ok {
		return context.Cause(ctx)
	}
	return nil
}

// Shared sentinel channels, memoized per element type.
var (
	sentinelMu sync.Mutex
	neverChans = make(map[reflect.Type]any)
	closeChans = make(map[reflect.Type]any)
)

// Never returns the shared channel for T that is never written and
// never closed: its cases are never ready. Lazily initialized.
func Never[T any]() *Channel[T] {
	sentinelMu.Lock()
	defer sentinelMu.Unlock()
	t := reflect.TypeFor[T]()
	if ch, ok := neverChans[t]; ok {
		return ch.(*Channel[T])
	}
	ch := New[T](0)
	neverChans[t] = ch
	return ch
}

// Closed returns the shared channel for T that is closed at first
// access: its receive cases are always ready with end of stream.
// Lazily initialized; the close happens exactly once.
func Closed[T any]() *Channel[T] {
	sentinelMu.Lock()
	defer sentinelMu.Unlock()
	t := reflect.TypeFor[T]()
	if ch, ok := closeChans[t]; ok {
		return ch.(*Channel[T])
	}
	ch := New[T](0)
	ch.Close()
	closeChans[t] = ch
	return ch
}
