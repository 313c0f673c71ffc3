// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// RecvBind receives from c and passes the envelope to f.
// Fuses Perform(RecvOp[T]{C: c}) + Bind.
func RecvBind[T, B any](c *Channel[T], f func(RecvResult[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(RecvOp[T]{C: c}), f)
}

// SendThen sends v on c and then continues with next, discarding the
// send envelope. Fuses Perform(SendOp[T]) + Then.
func SendThen[T, B any](c *Channel[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(SendOp[T]{C: c, Value: v}), next)
}

// SendBind sends v on c and passes the envelope to f, for protocols
// that must observe a close. Fuses Perform(SendOp[T]) + Bind.
func SendBind[T, B any](c *Channel[T], v T, f func(SendResult) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(SendOp[T]{C: c, Value: v}), f)
}

// CloseDone closes c and returns a.
// Fuses Perform(CloseOp[T]) + Then + Pure.
func CloseDone[T, A any](c *Channel[T], a A) kont.Eff[A] {
	return kont.Then(kont.Perform(CloseOp[T]{C: c}), kont.Pure(a))
}

// SelectBind selects over cases and passes the winning case to f.
// Fuses Perform(SelectOp) + Bind.
func SelectBind[B any](cases []Case, f func(Case) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(SelectOp{Cases: cases}), f)
}
