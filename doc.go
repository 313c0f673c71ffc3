// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package csp provides typed bounded channels with a multi-way select
// combinator in the goroutine-and-channel tradition: buffered FIFO
// delivery, unbuffered rendezvous, close broadcast, and uniformly
// random choice among simultaneously ready select cases.
//
// # Architecture
//
//   - Rendezvous engine: each channel composes a fixed ring buffer
//     with pools of parked receivers and senders; an operation
//     completes immediately, buffers, hands off to a parked peer, or
//     parks. Parked-peer dispatch is uniformly random, which is the
//     fairness contract.
//   - First-wins claiming: parked operations carry a claim word from
//     [code.hybscloud.com/atomix]; dispatch, cancellation and select
//     completion commit by winning its CAS, so a value is delivered
//     to exactly one outcome.
//   - Select: cases are shuffled (Fisher–Yates), tried once with
//     every involved channel locked in serial order, then armed under
//     a shared claim word. [Select] parks; [TrySelect] is the default
//     branch.
//   - Blocking: parked callers wait with [code.hybscloud.com/iox]
//     adaptive backoff; cancellation is [context.Context].
//   - Waiter records recycle through bounded free-list rings from
//     [code.hybscloud.com/lfq], generation-guarded against stale
//     cancellation handles.
//
// # API Topologies
//
//   - Direct: [Channel.TryRecv], [Channel.TrySend], [Channel.Recv],
//     [Channel.Send], [Channel.Close], [Channel.WaitClose],
//     [Channel.All].
//   - Select: [Channel.RecvCase], [Channel.SendCase], [Select],
//     [TrySelect]; [Never] and [Closed] sentinels.
//   - Cont-world effects on [code.hybscloud.com/kont]: [RecvBind],
//     [SendThen], [CloseDone], [SelectBind] with [Exec] and [Run].
//   - Expr-world: [ExprRecvBind], [ExprSendThen], [ExprCloseDone],
//     [ExprSelectBind]; stepped via [Step] and [Advance], bridged via
//     [Reify] and [Reflect].
//
// # Example
//
//	c := csp.New[int](2)
//	c.TrySend(1)
//	c.TrySend(2)
//	c.Close()
//	for v := range c.All(context.Background()) {
//		fmt.Println(v) // 1, then 2
//	}
package csp
