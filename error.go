// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrClosed reports an operation against a channel that has been
// closed: a send, a parked send drained by Close, or a send case
// selected after close. Receiving from a closed channel is not an
// error; it is the end-of-stream outcome.
var ErrClosed = errors.New("csp: channel closed")

// IsClosed reports whether err classifies as ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsWouldBlock reports whether err is the non-blocking boundary
// signal. Sourced from [code.hybscloud.com/iox] for ecosystem
// consistency: effect-world dispatch returns iox.ErrWouldBlock when a
// try operation cannot make progress.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
