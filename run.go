// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run interleaves two Cont-world channel protocols on the calling
// goroutine and returns both results, backing off (iox.Backoff) when
// neither side can make progress. Does not spawn goroutines. The
// protocols communicate over whatever channels their operations
// carry; use buffered channels between pure effect-world peers.
func Run[A, B any](a kont.Eff[A], b kont.Eff[B]) (A, B) {
	return RunExpr(Reify(a), Reify(b))
}

// RunExpr interleaves two Expr-world channel protocols on the calling
// goroutine and returns both results, backing off when neither side
// can make progress. Does not spawn goroutines.
func RunExpr[A, B any](a kont.Expr[A], b kont.Expr[B]) (A, B) {
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
