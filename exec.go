// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// chanHandler implements kont.Handler for channel effects.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff,
// converting non-blocking dispatch into blocking evaluation.
type chanHandler[R any] struct{}

// Dispatch implements kont.Handler via structural interface assertion.
func (chanHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	cop, ok := op.(chanDispatcher)
	if !ok {
		panic("csp: unhandled effect in chanHandler")
	}
	return dispatchWait(cop), true
}

// dispatchWait blocks until DispatchChan succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff.
func dispatchWait(cop chanDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := cop.DispatchChan()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world channel protocol to completion on the
// calling goroutine. Blocks on iox.ErrWouldBlock via adaptive
// backoff. Pure effect-world protocols never park waiters, so a
// rendezvous between two Exec calls on an unbuffered channel cannot
// meet: give pipelines capacity, or pair Exec with façade goroutines.
func Exec[R any](protocol kont.Eff[R]) R {
	return kont.Handle(protocol, chanHandler[R]{})
}

// ExecExpr runs an Expr-world channel protocol to completion on the
// calling goroutine. Blocks on iox.ErrWouldBlock via adaptive
// backoff.
func ExecExpr[R any](protocol kont.Expr[R]) R {
	return kont.HandleExpr(protocol, chanHandler[R]{})
}
