// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive channel protocol (Cont-world).
// step returns Left(nextState) to continue or Right(result) to
// finish. Producer and consumer pipelines over channels are loops of
// SendThen/RecvBind steps.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}
