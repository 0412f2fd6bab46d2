package rtchan

import (
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// wakeReason is the value delivered to a parked call on wake. nil
// means the wake was caused by close (spec.md §9 "wake token
// convention"); any other value identifies the winning sudog for a
// select, or is simply a non-nil sentinel for a single-op wake.
type wakeReason = any

// parkChan is the one-shot signal a blocked send/recv/select call
// waits on. Exactly one value is ever delivered to it.
type parkChan chan wakeReason

func newParkChan() parkChan { return make(parkChan, 1) }

// park invokes commit — which must release every lock the caller
// holds, after the caller has enqueued its sudog(s) under those locks
// — and only then blocks on w. This ordering is the two-phase commit
// the spec requires of gopark's unlockf callback (spec.md §9): no
// waker can reach a sudog until commit releases the lock guarding its
// queue, and because w is buffered, a wake delivered before park
// starts receiving on w is kept rather than lost.
func park(w parkChan, commit func()) wakeReason {
	commit()
	return <-w
}

// ready delivers tok to a parked call, making it runnable again.
func ready(w parkChan, tok wakeReason) {
	w <- tok
}

// yieldToGC is the voluntary preemption point the spec calls a
// safepoint yield. Plain goroutines have no stop-the-world GC to
// yield to, but calling it at the same points the spec names keeps
// this module's scheduling fair under heavy contention.
func yieldToGC() { runtime.Gosched() }

var (
	prngMu sync.Mutex
	prng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// fastrand mirrors the teacher's hand-rolled runtime/stubs.go PRNG:
// no ecosystem library is a better fit for "an int in [0,n)" than
// math/rand, so this one concern stays on the standard library.
func fastrand(n int) int {
	if n <= 0 {
		return 0
	}
	prngMu.Lock()
	defer prngMu.Unlock()
	return prng.Intn(n)
}

// cputicks stands in for the block-profiling timestamp the spec
// attaches to a sudog's release_time. This module doesn't implement
// block profiling, so it is only used to timestamp registry snapshots.
func cputicks() int64 { return time.Now().UnixNano() }

// BlockForever parks the calling goroutine with no way to ever wake
// it — required for send/recv on a nil channel, and for a select
// whose every case is a nil channel with no default (spec.md
// §4.3/§4.5 edge cases).
func BlockForever() {
	select {}
}
