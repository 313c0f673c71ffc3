// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// oneshot is a single-shot notification cell bridging engine callbacks
// to blocking callers. resolve is called at most once; the claim
// discipline in pool.go guarantees this. The value write is published
// by the state store, so readers must observe state == 1 before
// touching value.
type oneshot[T any] struct {
	value T
	state atomix.Uint32
}

func (o *oneshot[T]) resolve(v T) {
	o.value = v
	o.state.Store(1)
}

func (o *oneshot[T]) poll() (T, bool) {
	if o.state.Load() == 0 {
		var zero T
		return zero, false
	}
	return o.value, true
}

// settle blocks until resolved, ignoring cancellation. Used after a
// claim race is lost: a dispatch is already in flight and its outcome
// must not be dropped.
func (o *oneshot[T]) settle() T {
	var bo iox.Backoff
	for {
		if v, ok := o.poll(); ok {
			return v
		}
		bo.Wait()
	}
}

// await blocks until resolved or ctx is cancelled.
// Reports false on cancellation; the cell may still resolve later.
func (o *oneshot[T]) await(ctx context.Context) (T, bool) {
	var bo iox.Backoff
	for {
		if v, ok := o.poll(); ok {
			return v, true
		}
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		bo.Wait()
	}
}
