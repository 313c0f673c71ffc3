// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import "code.hybscloud.com/atomix"

// caseChan is the engine surface Select needs from a case's channel:
// its lock and the serial that orders multi-channel lock acquisition.
type caseChan interface {
	lock()
	unlock()
	serialNo() Serial
}

// Case is an armable view of a single pending channel operation, the
// unit Select operates on. A case transitions idle → fired (outcome
// stored) and back to idle via Reset. Distinct cases compare by
// identity: RecvCase and SendCase return a fresh instance per call,
// and Select reports the winning case by that identity.
//
// A case must not participate in more than one Select at a time.
type Case interface {
	// Reset clears the stored outcome so the case can be reused in a
	// later Select.
	Reset()
	// TryInvoke attempts the operation synchronously and reports
	// whether it completed; on completion the outcome is stored.
	// Not-ready (or full) is not completion; a send on a closed
	// channel is.
	TryInvoke() bool

	chanRef() caseChan
	tryLocked(fl *fireList) bool
	armLocked(claim *atomix.Uint32, done *oneshot[Case]) func()
	caseErr() error
}

// RecvCase is a Case wrapping a pending receive.
type RecvCase[T any] struct {
	ch  *Channel[T]
	out RecvResult[T]
	has bool
}

// RecvCase returns a fresh receive case over c. Each call returns a
// distinct instance; bind one and reuse it when identity matters.
func (c *Channel[T]) RecvCase() *RecvCase[T] {
	return &RecvCase[T]{ch: c}
}

// Chan returns the case's channel.
func (rc *RecvCase[T]) Chan() *Channel[T] { return rc.ch }

// Outcome returns the stored result. ok is false until the case has
// fired (or completed synchronously) since the last Reset.
func (rc *RecvCase[T]) Outcome() (RecvResult[T], bool) {
	return rc.out, rc.has
}

func (rc *RecvCase[T]) Reset() {
	rc.out = RecvResult[T]{}
	rc.has = false
}

func (rc *RecvCase[T]) TryInvoke() bool {
	var fl fireList
	rc.ch.mu.Lock()
	ok := rc.tryLocked(&fl)
	rc.ch.mu.Unlock()
	fl.run()
	return ok
}

func (rc *RecvCase[T]) chanRef() caseChan { return &rc.ch.rw }

func (rc *RecvCase[T]) tryLocked(fl *fireList) bool {
	res := rc.ch.tryRecvLocked(fl)
	if !res.OK && !res.Closed {
		return false
	}
	rc.out = res
	rc.has = true
	return true
}

// armLocked parks a receiver whose dispatch stores the outcome and
// resolves done with this case. The returned disposer cancels the
// park; it is a no-op once the waiter has been dispatched or dropped.
func (rc *RecvCase[T]) armLocked(claim *atomix.Uint32, done *oneshot[Case]) func() {
	w, gen := rc.ch.parkRecvLocked(claim, func(v T, ok bool) {
		if ok {
			rc.out = RecvResult[T]{Value: v, OK: true}
		} else {
			rc.out = RecvResult[T]{Closed: true}
		}
		rc.has = true
		done.resolve(rc)
	})
	ch := rc.ch
	return func() {
		ch.mu.Lock()
		ch.recvs.disconnect(w, gen)
		ch.mu.Unlock()
	}
}

// caseErr is nil for receives: end of stream is not a failure.
func (rc *RecvCase[T]) caseErr() error { return nil }

// SendCase is a Case wrapping a pending send of a fixed value.
type SendCase[T any] struct {
	ch    *Channel[T]
	value T
	out   SendResult
	has   bool
}

// SendCase returns a fresh send case delivering v over c. Each call
// returns a distinct instance.
func (c *Channel[T]) SendCase(v T) *SendCase[T] {
	return &SendCase[T]{ch: c, value: v}
}

// Chan returns the case's channel.
func (sc *SendCase[T]) Chan() *Channel[T] { return sc.ch }

// Outcome returns the stored result. ok is false until the case has
// fired (or completed synchronously) since the last Reset.
func (sc *SendCase[T]) Outcome() (SendResult, bool) {
	return sc.out, sc.has
}

func (sc *SendCase[T]) Reset() {
	sc.out = SendResult{}
	sc.has = false
}

func (sc *SendCase[T]) TryInvoke() bool {
	var fl fireList
	sc.ch.mu.Lock()
	ok := sc.tryLocked(&fl)
	sc.ch.mu.Unlock()
	fl.run()
	return ok
}

func (sc *SendCase[T]) chanRef() caseChan { return &sc.ch.rw }

func (sc *SendCase[T]) tryLocked(fl *fireList) bool {
	res := sc.ch.trySendLocked(sc.value, fl)
	if !res.OK && !res.Closed {
		return false
	}
	sc.out = res
	sc.has = true
	return true
}

func (sc *SendCase[T]) armLocked(claim *atomix.Uint32, done *oneshot[Case]) func() {
	w, gen := sc.ch.parkSendLocked(sc.value, claim, func(ok bool, err error) {
		if ok {
			sc.out = SendResult{OK: true}
		} else {
			sc.out = SendResult{Closed: true, Reason: err}
		}
		sc.has = true
		done.resolve(sc)
	})
	ch := sc.ch
	return func() {
		ch.mu.Lock()
		ch.sends.disconnect(w, gen)
		ch.mu.Unlock()
	}
}

func (sc *SendCase[T]) caseErr() error {
	if sc.has {
		return sc.out.Err()
	}
	return nil
}
