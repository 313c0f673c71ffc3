// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a channel protocol until the first effect
// suspension. Returns (result, nil) on completion, or (zero,
// suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended channel operation. Operations
// carry their target channel, so no endpoint argument is needed.
// DispatchChan is non-blocking: Advance returns iox.ErrWouldBlock
// when the engine cannot make progress (the not-ready boundary).
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion. On iox.ErrWouldBlock,
// the suspension is unconsumed and may be retried after a peer makes
// progress.
func Advance[R any](susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	cop, ok := susp.Op().(chanDispatcher)
	if !ok {
		panic("csp: unhandled effect in Advance")
	}
	v, err := cop.DispatchChan()
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
