// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/csp"
)

func TestBufferedStoreLoad(t *testing.T) {
	c := csp.New[int](2)
	if res := c.TrySend(1); !res.OK {
		t.Fatalf("TrySend(1) = %+v, want OK", res)
	}
	if res := c.TrySend(2); !res.OK {
		t.Fatalf("TrySend(2) = %+v, want OK", res)
	}
	if res := c.TrySend(3); res.OK || res.Closed {
		t.Fatalf("TrySend(3) = %+v, want full", res)
	}
	if res := c.TryRecv(); !res.OK || res.Value != 1 {
		t.Fatalf("TryRecv = %+v, want value 1", res)
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
	if res := c.TryRecv(); !res.OK || res.Value != 2 {
		t.Fatalf("TryRecv = %+v, want value 2", res)
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d, want 0", n)
	}
	if res := c.TryRecv(); res.OK || res.Closed {
		t.Fatalf("TryRecv on empty = %+v, want not ready", res)
	}
}

func TestCapacity(t *testing.T) {
	if got := csp.New[int](3).Cap(); got != 3 {
		t.Fatalf("Cap = %d, want 3", got)
	}
	if got := csp.New[int](0).Cap(); got != 0 {
		t.Fatalf("Cap = %d, want 0", got)
	}
	// Negative capacity is treated as unbuffered.
	if got := csp.New[int](-7).Cap(); got != 0 {
		t.Fatalf("Cap = %d, want 0", got)
	}
}

func TestUnbufferedHandoff(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)

	var wg sync.WaitGroup
	var got csp.RecvResult[int]
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, _ = c.Recv(context.Background())
	}()

	res, err := c.Send(context.Background(), 100)
	if err != nil || !res.OK {
		t.Fatalf("Send = %+v, %v, want OK", res, err)
	}
	wg.Wait()
	if !got.OK || got.Value != 100 {
		t.Fatalf("Recv = %+v, want value 100", got)
	}
}

func TestUnbufferedSendWaitsForReceiver(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)

	var sent atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Send(context.Background(), 7)
		sent.Store(true)
	}()

	settle()
	if sent.Load() {
		t.Fatal("Send completed without a receiver")
	}
	eventually(t, func() bool {
		return c.TryRecv().OK
	}, "TryRecv never saw the parked sender")
	eventually(t, sent.Load, "Send never completed after handoff")
	wg.Wait()
}

func TestCloseWhileParkedRecv(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)

	var wg sync.WaitGroup
	var got csp.RecvResult[int]
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = c.Recv(context.Background())
	}()

	settle()
	if !c.Close() {
		t.Fatal("Close = false on first call")
	}
	wg.Wait()
	if gotErr != nil {
		t.Fatalf("Recv err = %v, want nil", gotErr)
	}
	if !got.Closed || got.OK {
		t.Fatalf("Recv = %+v, want end of stream", got)
	}
	if !c.IsClosed() {
		t.Fatal("IsClosed = false after Close")
	}
}

func TestCloseWhileParkedSend(t *testing.T) {
	skipRace(t)
	c := csp.New[int](1)
	c.TrySend(1) // fill the buffer so the next send parks

	var wg sync.WaitGroup
	var got csp.SendResult
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = c.Send(context.Background(), 2)
	}()

	settle()
	c.Close()
	wg.Wait()
	if !csp.IsClosed(gotErr) {
		t.Fatalf("Send err = %v, want ErrClosed", gotErr)
	}
	if !got.Closed || got.OK {
		t.Fatalf("Send = %+v, want closed", got)
	}
	// The buffered value survives the close.
	if res := c.TryRecv(); !res.OK || res.Value != 1 {
		t.Fatalf("TryRecv = %+v, want value 1", res)
	}
	if res := c.TryRecv(); !res.Closed {
		t.Fatalf("TryRecv = %+v, want end of stream", res)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := csp.New[int](0)
	if !c.Close() {
		t.Fatal("first Close = false")
	}
	if c.Close() {
		t.Fatal("second Close = true")
	}
	if res := c.TrySend(1); !res.Closed || !csp.IsClosed(res.Reason) {
		t.Fatalf("TrySend after close = %+v, want closed", res)
	}
}

func TestRecvAbort(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)
	stop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())

	var wg sync.WaitGroup
	var got csp.RecvResult[int]
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = c.Recv(ctx)
	}()

	settle()
	cancel(stop)
	wg.Wait()
	if !errors.Is(gotErr, stop) {
		t.Fatalf("Recv err = %v, want cause %v", gotErr, stop)
	}
	if !got.Aborted || got.OK || got.Closed || !errors.Is(got.Reason, stop) {
		t.Fatalf("Recv = %+v, want aborted with reason", got)
	}
	// The park was cancelled: a later send must not find a receiver.
	if res := c.TrySend(1); res.OK {
		t.Fatalf("TrySend = %+v, want full", res)
	}
}

func TestSendAbort(t *testing.T) {
	skipRace(t)
	c := csp.New[int](1)
	c.TrySend(1)
	stop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())

	var wg sync.WaitGroup
	var got csp.SendResult
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = c.Send(ctx, 2)
	}()

	settle()
	cancel(stop)
	wg.Wait()
	if !errors.Is(gotErr, stop) {
		t.Fatalf("Send err = %v, want cause %v", gotErr, stop)
	}
	if !got.Aborted || !errors.Is(got.Reason, stop) {
		t.Fatalf("Send = %+v, want aborted with reason", got)
	}
	// The cancelled value was never delivered.
	if res := c.TryRecv(); !res.OK || res.Value != 1 {
		t.Fatalf("TryRecv = %+v, want value 1", res)
	}
	if res := c.TryRecv(); res.OK {
		t.Fatalf("TryRecv = %+v, want empty", res)
	}
}

func TestAbortedContextShortCircuits(t *testing.T) {
	c := csp.New[int](1)
	stop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(stop)

	if res, err := c.Recv(ctx); !res.Aborted || !errors.Is(err, stop) {
		t.Fatalf("Recv = %+v, %v, want aborted short-circuit", res, err)
	}
	// The engine was never touched: a ready buffer slot stays free.
	if res, err := c.Send(ctx, 1); !res.Aborted || !errors.Is(err, stop) {
		t.Fatalf("Send = %+v, %v, want aborted short-circuit", res, err)
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d after aborted send, want 0", n)
	}
}

func TestParkedSenderRefillsDrainedSlot(t *testing.T) {
	skipRace(t)
	c := csp.New[int](1)
	c.TrySend(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Send(context.Background(), 2)
	}()

	settle() // let the sender park against the full buffer
	if res := c.TryRecv(); !res.OK || res.Value != 1 {
		t.Fatalf("TryRecv = %+v, want value 1", res)
	}
	// The vacated slot was refilled from the parked sender in the
	// same critical section.
	wg.Wait()
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d after drain, want 1", n)
	}
	if res := c.TryRecv(); !res.OK || res.Value != 2 {
		t.Fatalf("TryRecv = %+v, want value 2", res)
	}
}

func TestWaitClose(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)

	var wg sync.WaitGroup
	var waitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		waitErr = c.WaitClose(context.Background())
	}()

	settle()
	c.Close()
	wg.Wait()
	if waitErr != nil {
		t.Fatalf("WaitClose = %v, want nil", waitErr)
	}
	// Already closed resolves immediately.
	if err := c.WaitClose(context.Background()); err != nil {
		t.Fatalf("WaitClose on closed = %v, want nil", err)
	}
}

func TestWaitCloseAbort(t *testing.T) {
	skipRace(t)
	c := csp.New[int](0)
	stop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(stop)
	if err := c.WaitClose(ctx); !errors.Is(err, stop) {
		t.Fatalf("WaitClose = %v, want cause %v", err, stop)
	}
}

func TestSentinels(t *testing.T) {
	if csp.Never[int]() != csp.Never[int]() {
		t.Fatal("Never returned distinct channels for one type")
	}
	if csp.Closed[int]() != csp.Closed[int]() {
		t.Fatal("Closed returned distinct channels for one type")
	}
	if csp.Never[int]() == csp.Closed[int]() {
		t.Fatal("Never and Closed share a channel")
	}
	if !csp.Closed[int]().IsClosed() {
		t.Fatal("Closed sentinel is not closed")
	}
	if csp.Never[string]().IsClosed() {
		t.Fatal("Never sentinel is closed")
	}
	if res := csp.Closed[int]().TryRecv(); !res.Closed {
		t.Fatalf("TryRecv on Closed = %+v, want end of stream", res)
	}
	if res := csp.Never[int]().TryRecv(); res.OK || res.Closed {
		t.Fatalf("TryRecv on Never = %+v, want not ready", res)
	}
}

func TestAllIterator(t *testing.T) {
	skipRace(t)
	c := csp.New[int](3)
	c.TrySend(1)
	c.TrySend(2)
	c.TrySend(3)
	c.Close()

	var got []int
	for v := range c.All(context.Background()) {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("All = %v, want [1 2 3]", got)
	}
}

func TestAllIteratorEarlyBreak(t *testing.T) {
	skipRace(t)
	c := csp.New[int](2)
	c.TrySend(1)
	c.TrySend(2)

	for range c.All(context.Background()) {
		break
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d after broken iteration, want 1", n)
	}
}
