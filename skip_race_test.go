// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package csp_test

import "testing"

// skipRace skips tests that exercise the lock-free waiter free lists
// and claim words. The race detector tracks per-variable
// happens-before and cannot see cross-variable memory ordering
// (store-release on data, load-acquire on state), producing false
// positives inside lfq and atomix.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: free-list rings use cross-variable memory ordering")
}
