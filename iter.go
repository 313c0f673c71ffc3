// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"iter"
)

// All returns an iterator over the channel's values. Iteration parks
// between values and terminates cleanly at end of stream. When ctx is
// cancelled mid-iteration the sequence simply stops; inspect
// ctx.Err() afterwards to distinguish cancellation from close.
func (c *Channel[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			res, err := c.Recv(ctx)
			if err != nil || !res.OK {
				return
			}
			if !yield(res.Value) {
				return
			}
		}
	}
}
