// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"math/rand/v2"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Select parks on every case at once and completes with whichever is
// first ready, choosing uniformly at random among simultaneously
// ready cases. Nil entries are ignored. With no live cases, Select
// parks until ctx is cancelled.
//
// The winning case is returned with its outcome stored; err carries
// the winner's failure (a selected send on a closed channel) or the
// cancellation cause. End of stream on a receive case is a normal
// completion.
//
// Cases are Reset on entry and consumed by identity: reuse the same
// case instances across iterations to correlate the winner.
func Select(ctx context.Context, cases ...Case) (Case, error) {
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}
	work := liveCases(cases)
	if len(work) == 0 {
		var bo iox.Backoff
		for ctx.Err() == nil {
			bo.Wait()
		}
		return nil, context.Cause(ctx)
	}
	order := lockOrder(work)

	var fl fireList
	lockAll(order)
	if won := tryEach(work, &fl); won != nil {
		unlockAll(order)
		fl.run()
		return won, won.caseErr()
	}

	// Nothing ready: arm every case under a shared first-wins claim
	// word, then release the locks. Pass one and pass two share the
	// critical section, so no ready peer can slip between them.
	claim := new(atomix.Uint32)
	done := new(oneshot[Case])
	disposers := make([]func(), len(work))
	for i, c := range work {
		disposers[i] = c.armLocked(claim, done)
	}
	unlockAll(order)
	fl.run()

	var bo iox.Backoff
	for {
		if won, ok := done.poll(); ok {
			disposeAll(disposers)
			return won, won.caseErr()
		}
		if ctx.Err() != nil {
			disposeAll(disposers)
			if claim.CompareAndSwap(claimArmed, claimTaken) {
				return nil, context.Cause(ctx)
			}
			// A dispatch won the claim first; honor it.
			won := done.settle()
			return won, won.caseErr()
		}
		bo.Wait()
	}
}

// TrySelect is Select with a default branch: it attempts each case
// synchronously in shuffled order and returns nil if none is ready.
// Never blocks.
func TrySelect(cases ...Case) (Case, error) {
	work := liveCases(cases)
	if len(work) == 0 {
		return nil, nil
	}
	order := lockOrder(work)
	var fl fireList
	lockAll(order)
	won := tryEach(work, &fl)
	unlockAll(order)
	fl.run()
	if won == nil {
		return nil, nil
	}
	return won, won.caseErr()
}

// liveCases drops nil entries, resets the survivors and shuffles them
// in place with a Fisher–Yates pass. The shuffle is the fairness
// mechanism: the first ready case visited wins.
func liveCases(cases []Case) []Case {
	work := make([]Case, 0, len(cases))
	for _, c := range cases {
		if c != nil {
			work = append(work, c)
		}
	}
	for _, c := range work {
		c.Reset()
	}
	for i := len(work) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		work[i], work[j] = work[j], work[i]
	}
	return work
}

// lockOrder returns the distinct engines behind the cases in
// ascending serial order. Taking multiple channel locks in one total
// order keeps concurrent selects deadlock-free.
func lockOrder(work []Case) []caseChan {
	order := make([]caseChan, 0, len(work))
	for _, c := range work {
		ch := c.chanRef()
		dup := false
		for _, seen := range order {
			if seen == ch {
				dup = true
				break
			}
		}
		if !dup {
			order = append(order, ch)
		}
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j].serialNo() < order[j-1].serialNo(); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func lockAll(order []caseChan) {
	for _, ch := range order {
		ch.lock()
	}
}

func unlockAll(order []caseChan) {
	for i := len(order) - 1; i >= 0; i-- {
		order[i].unlock()
	}
}

// tryEach walks the shuffled cases once, returning the first that
// completes synchronously. Requires every involved engine lock.
func tryEach(work []Case, fl *fireList) Case {
	for _, c := range work {
		if c.tryLocked(fl) {
			return c
		}
	}
	return nil
}

// disposeAll cancels the remaining armed waiters. Disconnecting a
// waiter that already fired or died is a no-op.
func disposeAll(disposers []func()) {
	for _, d := range disposers {
		d()
	}
}
