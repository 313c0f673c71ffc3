// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import "code.hybscloud.com/atomix"

// Claim word states. Every parked waiter points at a claim word: a
// private one for plain Recv/Send parks, or the shared word of the
// Select that armed it. Dispatching to a waiter requires winning the
// armed→taken CAS; a waiter whose word is already taken lost elsewhere
// and is discarded on contact.
const (
	claimArmed uint32 = iota
	claimTaken
)

// recvWaiter is a parked receive. fn is invoked exactly once, after
// every engine lock has been released: (v, true) on delivery,
// (zero, false) on end of stream. A cancelled waiter's fn is never
// invoked. gen guards recycled records against stale disconnects.
type recvWaiter[T any] struct {
	claim *atomix.Uint32
	gen   atomix.Uint32
	fn    func(v T, ok bool)
}

// sendWaiter is a parked send carrying the value to deliver.
// fn is invoked exactly once after unlock: (true, nil) once the value
// has been handed to a receiver or buffered, (false, ErrClosed) when
// the channel closes underneath it.
type sendWaiter[T any] struct {
	claim *atomix.Uint32
	gen   atomix.Uint32
	value T
	fn    func(ok bool, err error)
}

// waiterSet is an unordered random-access collection of parked
// waiters: O(1) push, O(1) removal by position or identity, O(1)
// uniform pick. Removal swaps the last element into the vacated slot,
// so order is insertion order only until the first removal. Callers
// must not rely on iteration order.
type waiterSet[W comparable] struct {
	items []W
	index map[W]int
}

func (s *waiterSet[W]) len() int { return len(s.items) }

func (s *waiterSet[W]) push(w W) {
	if s.index == nil {
		s.index = make(map[W]int)
	}
	s.index[w] = len(s.items)
	s.items = append(s.items, w)
}

// removeAt removes and returns the waiter at position i, swapping the
// last element into its slot. i must be a valid index.
func (s *waiterSet[W]) removeAt(i int) W {
	w := s.items[i]
	last := len(s.items) - 1
	moved := s.items[last]
	s.items[i] = moved
	var zero W
	s.items[last] = zero
	s.items = s.items[:last]
	if i < last {
		s.index[moved] = i
	}
	delete(s.index, w)
	return w
}

// remove deletes w if present and reports whether it was.
// Removing an absent waiter is a no-op.
func (s *waiterSet[W]) remove(w W) bool {
	i, ok := s.index[w]
	if !ok {
		return false
	}
	s.removeAt(i)
	return true
}
