// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// rw is the rendezvous state machine: a bounded FIFO buffer, a pool of
// parked receivers and a pool of parked senders. It decides
// synchronously whether an operation completes immediately, is
// buffered, hands off to a parked peer, or must park.
//
// Every method suffixed Locked requires mu. Completion callbacks are
// never invoked under mu: they are collected on a fireList and run by
// the caller after all locks involved have been released. Select
// operations hold several rw locks at once, in ascending serial order.
type rw[T any] struct {
	mu        sync.Mutex
	serial    Serial
	buf       *ringBuffer[T]
	recvs     recvPool[T]
	sends     sendPool[T]
	closed    bool
	closedBit atomix.Uint32
	done      *oneshot[struct{}]
}

// Invariants between operations:
//
//   - recvs non-empty ⇒ buf empty
//   - sends non-empty ⇒ buf full or unbuffered
//   - closed ⇒ both pools empty
//
// The pools may transiently hold dead (claim-taken) waiters from lost
// selects; those do not count as parked peers and vanish on contact.

// tryRecvLocked pops a buffered value, receives from a parked sender,
// or reports end of stream. The zero result means not ready.
func (e *rw[T]) tryRecvLocked(fl *fireList) RecvResult[T] {
	if e.buf != nil {
		if v, ok := e.buf.pop(); ok {
			// Refill the vacated slot from a parked sender so
			// senders stay parked only while the buffer is full,
			// and buffered FIFO order is preserved.
			if sv, fn, ok := e.sends.claimOne(); ok {
				e.buf.push(sv)
				fl.add(func() { fn(true, nil) })
			}
			return RecvResult[T]{Value: v, OK: true}
		}
	}
	if e.closed {
		return RecvResult[T]{Closed: true}
	}
	// Direct handoff. Covers the unbuffered rendezvous and the
	// transient buffered case where a sender is parked next to a
	// drained buffer.
	if sv, fn, ok := e.sends.claimOne(); ok {
		fl.add(func() { fn(true, nil) })
		return RecvResult[T]{Value: sv, OK: true}
	}
	return RecvResult[T]{}
}

// trySendLocked hands v to a parked receiver or buffers it.
// The zero result means the channel is full.
func (e *rw[T]) trySendLocked(v T, fl *fireList) SendResult {
	if e.closed {
		return SendResult{Closed: true, Reason: ErrClosed}
	}
	// A parked receiver implies an empty buffer, so handoff cannot
	// reorder past buffered values.
	if fn, ok := e.recvs.claimOne(); ok {
		fl.add(func() { fn(v, true) })
		return SendResult{OK: true}
	}
	if e.buf != nil && e.buf.push(v) {
		return SendResult{OK: true}
	}
	return SendResult{}
}

// parkRecvLocked registers a receiver. Callers must have seen
// tryRecvLocked report not-ready inside the same critical section.
func (e *rw[T]) parkRecvLocked(claim *atomix.Uint32, fn func(T, bool)) (*recvWaiter[T], uint32) {
	return e.recvs.connect(claim, fn)
}

// parkSendLocked registers a sender. Callers must have seen
// trySendLocked report full inside the same critical section.
func (e *rw[T]) parkSendLocked(v T, claim *atomix.Uint32, fn func(bool, error)) (*sendWaiter[T], uint32) {
	return e.sends.connect(v, claim, fn)
}

// closeLocked flips the closed flag and drains both pools: parked
// senders fail with ErrClosed, parked receivers observe end of
// stream, and the close notifier resolves. Buffered values remain
// drainable. Reports false if already closed.
func (e *rw[T]) closeLocked(fl *fireList) bool {
	if e.closed {
		return false
	}
	e.closed = true
	e.closedBit.Store(1)
	e.sends.close(fl)
	e.recvs.close(fl)
	if e.done != nil {
		d := e.done
		fl.add(func() { d.resolve(struct{}{}) })
	}
	return true
}

func (e *rw[T]) lock()            { e.mu.Lock() }
func (e *rw[T]) unlock()          { e.mu.Unlock() }
func (e *rw[T]) serialNo() Serial { return e.serial }
