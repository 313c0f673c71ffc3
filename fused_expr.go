// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is the pre-allocated terminal frame shared by every
// fused Expr constructor, avoiding a heap escape per construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSendThen sends v on c and then continues with next.
// Fuses ExprPerform(SendOp[T]) + ExprThen.
func ExprSendThen[T, B any](c *Channel[T], v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = SendOp[T]{C: c, Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(RecvResult[T]) kont.Expr[B])
	result := f(current.(RecvResult[T]))
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives from c and passes the envelope to f.
// Fuses ExprPerform(RecvOp[T]) + ExprBind.
func ExprRecvBind[T, B any](c *Channel[T], f func(RecvResult[T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = RecvOp[T]{C: c}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes c and returns a.
// Fuses ExprPerform(CloseOp[T]) + ExprThen + ExprReturn.
func ExprCloseDone[T, A any](c *Channel[T], a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = CloseOp[T]{C: c}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}

func selectBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(Case) kont.Expr[B])
	result := f(current.(Case))
	return kont.Erased(result.Value), result.Frame
}

// ExprSelectBind selects over cases and passes the winning case to f.
// Fuses ExprPerform(SelectOp) + ExprBind.
func ExprSelectBind[B any](cases []Case, f func(Case) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = selectBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = SelectOp{Cases: cases}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
