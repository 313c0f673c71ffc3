// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// chanErrorHandler handles both channel and error effects. Channel
// ops wait on ErrWouldBlock via iox.Backoff. Error ops short-circuit
// on Throw.
type chanErrorHandler[E, A any] struct {
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Channel+Error
// handler. Dispatch order: Channel → Error.
func (h chanErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if cop, ok := op.(chanDispatcher); ok {
		return dispatchWait(cop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("csp: unhandled effect in chanErrorHandler")
}

// ExecError runs a channel protocol with error handling.
// Returns Either[E, R] — Right on success, Left on Throw. Blocks on
// iox.ErrWouldBlock via adaptive backoff.
func ExecError[E, R any](protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := chanErrorHandler[E, R]{errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// StepError evaluates a channel protocol with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion
// or error, or (zero, suspension) if pending.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation. Channel ops are
// non-blocking (ErrWouldBlock). Error ops are eager: Throw discards
// the suspension and returns Left.
func AdvanceError[E, R any](susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	if cop, ok := susp.Op().(chanDispatcher); ok {
		v, err := cop.DispatchChan()
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("csp: unhandled effect in AdvanceError")
}
