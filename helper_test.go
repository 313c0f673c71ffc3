// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"testing"
	"time"
)

// eventually polls cond until it holds or the deadline lapses.
// Parking in this package is backoff-based, so tests observe state
// transitions by polling rather than by synchronization handshakes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

// settle gives parked goroutines time to reach their backoff wait.
func settle() {
	time.Sleep(50 * time.Millisecond)
}
