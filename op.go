// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// RecvOp is the effect operation for receiving from C.
// Perform(RecvOp[T]{C: c}) yields the receive envelope.
type RecvOp[T any] struct {
	kont.Phantom[RecvResult[T]]
	C *Channel[T]
}

// DispatchChan handles RecvOp against the channel engine.
// Non-blocking: returns iox.ErrWouldBlock while no value and no end
// of stream is available.
func (op RecvOp[T]) DispatchChan() (kont.Resumed, error) {
	res := op.C.TryRecv()
	if !res.OK && !res.Closed {
		return nil, iox.ErrWouldBlock
	}
	return res, nil
}

// SendOp is the effect operation for sending Value on C.
// Perform(SendOp[T]{C: c, Value: v}) yields the send envelope; a
// closed channel completes the effect with a Closed envelope rather
// than blocking.
type SendOp[T any] struct {
	kont.Phantom[SendResult]
	C     *Channel[T]
	Value T
}

// DispatchChan handles SendOp against the channel engine.
// Non-blocking: returns iox.ErrWouldBlock while the channel is full.
func (op SendOp[T]) DispatchChan() (kont.Resumed, error) {
	res := op.C.TrySend(op.Value)
	if !res.OK && !res.Closed {
		return nil, iox.ErrWouldBlock
	}
	return res, nil
}

// CloseOp is the effect operation for closing C.
// Resumes with Close's idempotence report. Never blocks.
type CloseOp[T any] struct {
	kont.Phantom[bool]
	C *Channel[T]
}

// DispatchChan handles CloseOp against the channel engine.
func (op CloseOp[T]) DispatchChan() (kont.Resumed, error) {
	return op.C.Close(), nil
}

// SelectOp is the effect operation for a multi-way select over Cases.
// Resumes with the winning case, outcome stored.
type SelectOp struct {
	kont.Phantom[Case]
	Cases []Case
}

// DispatchChan handles SelectOp against the channel engines.
// Non-blocking: returns iox.ErrWouldBlock while no case is ready.
func (op SelectOp) DispatchChan() (kont.Resumed, error) {
	won, _ := TrySelect(op.Cases...)
	if won == nil {
		return nil, iox.ErrWouldBlock
	}
	return won, nil
}

// chanDispatcher is the structural interface for channel operations.
// DispatchChan is non-blocking: it returns iox.ErrWouldBlock at the
// boundary where the engine cannot make progress.
type chanDispatcher interface {
	DispatchChan() (kont.Resumed, error)
}
