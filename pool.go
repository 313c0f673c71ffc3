// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"math/rand/v2"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// waiterFreeCap bounds the per-pool free-list ring of recycled waiter
// records. Overflow falls back to the garbage collector.
const waiterFreeCap = 64

// fireList collects completion callbacks decided under channel locks.
// Callbacks run only after every lock involved has been released, so
// user code can re-enter the engine freely.
type fireList struct {
	fns []func()
}

func (l *fireList) add(f func()) { l.fns = append(l.fns, f) }

func (l *fireList) run() {
	for _, f := range l.fns {
		f()
	}
	l.fns = nil
}

// recvPool holds the parked receivers of one channel. All methods
// except the free-list ring require the owning channel lock.
type recvPool[T any] struct {
	set    waiterSet[*recvWaiter[T]]
	free   lfq.Queue[*recvWaiter[T]]
	closed bool
}

// connect parks a receiver and returns its record and generation.
// Records come from the free-list ring when one is available.
func (p *recvPool[T]) connect(claim *atomix.Uint32, fn func(T, bool)) (*recvWaiter[T], uint32) {
	w, err := p.free.Dequeue()
	if err != nil {
		w = &recvWaiter[T]{}
	}
	w.claim = claim
	w.fn = fn
	g := w.gen.Load()
	p.set.push(w)
	return w, g
}

// disconnect removes w if it is still parked and its generation
// matches gen. Reports whether the park was cancelled before dispatch.
func (p *recvPool[T]) disconnect(w *recvWaiter[T], gen uint32) bool {
	if w.gen.Load() != gen {
		return false
	}
	if !p.set.remove(w) {
		return false
	}
	p.recycle(w)
	return true
}

// recycle retires a record: bump the generation so stale handles
// become no-ops, then return it to the free-list ring.
func (p *recvPool[T]) recycle(w *recvWaiter[T]) {
	w.fn = nil
	w.claim = nil
	w.gen.Add(1)
	_ = p.free.Enqueue(&w)
}

// claimOne picks parked receivers uniformly at random until one's
// claim CAS is won, and returns that receiver's callback. Waiters
// whose claim word was already taken are dead and are dropped on
// contact, so the pool self-cleans.
func (p *recvPool[T]) claimOne() (fn func(T, bool), ok bool) {
	for p.set.len() > 0 {
		w := p.set.removeAt(rand.IntN(p.set.len()))
		claimed := w.claim.CompareAndSwap(claimArmed, claimTaken)
		f := w.fn
		p.recycle(w)
		if claimed {
			return f, true
		}
	}
	return nil, false
}

// close drains the pool, dispatching end-of-stream to every live
// waiter. Idempotent.
func (p *recvPool[T]) close(fl *fireList) {
	if p.closed {
		return
	}
	p.closed = true
	for p.set.len() > 0 {
		w := p.set.removeAt(p.set.len() - 1)
		claimed := w.claim.CompareAndSwap(claimArmed, claimTaken)
		f := w.fn
		p.recycle(w)
		if claimed {
			fl.add(func() {
				var zero T
				f(zero, false)
			})
		}
	}
}

// sendPool holds the parked senders of one channel. Symmetric to
// recvPool, except claiming yields the parked value as well: the
// engine must forward it to a receiver or the buffer.
type sendPool[T any] struct {
	set    waiterSet[*sendWaiter[T]]
	free   lfq.Queue[*sendWaiter[T]]
	closed bool
}

func (p *sendPool[T]) connect(v T, claim *atomix.Uint32, fn func(bool, error)) (*sendWaiter[T], uint32) {
	w, err := p.free.Dequeue()
	if err != nil {
		w = &sendWaiter[T]{}
	}
	w.claim = claim
	w.value = v
	w.fn = fn
	g := w.gen.Load()
	p.set.push(w)
	return w, g
}

func (p *sendPool[T]) disconnect(w *sendWaiter[T], gen uint32) bool {
	if w.gen.Load() != gen {
		return false
	}
	if !p.set.remove(w) {
		return false
	}
	p.recycle(w)
	return true
}

func (p *sendPool[T]) recycle(w *sendWaiter[T]) {
	var zero T
	w.fn = nil
	w.claim = nil
	w.value = zero
	w.gen.Add(1)
	_ = p.free.Enqueue(&w)
}

func (p *sendPool[T]) claimOne() (v T, fn func(bool, error), ok bool) {
	for p.set.len() > 0 {
		w := p.set.removeAt(rand.IntN(p.set.len()))
		claimed := w.claim.CompareAndSwap(claimArmed, claimTaken)
		val, f := w.value, w.fn
		p.recycle(w)
		if claimed {
			return val, f, true
		}
	}
	var zero T
	return zero, nil, false
}

// close drains the pool, failing every live waiter with ErrClosed.
// Idempotent.
func (p *sendPool[T]) close(fl *fireList) {
	if p.closed {
		return
	}
	p.closed = true
	for p.set.len() > 0 {
		w := p.set.removeAt(p.set.len() - 1)
		claimed := w.claim.CompareAndSwap(claimArmed, claimTaken)
		f := w.fn
		p.recycle(w)
		if claimed {
			fl.add(func() { f(false, ErrClosed) })
		}
	}
}
