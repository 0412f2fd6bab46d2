package rtchan

import (
	"sync"

	"go.uber.org/atomic"
)

// sudog is a suspended-operation descriptor: one parked send, recv,
// or select case. It is the direct analogue of the teacher's
// runtime2.go sudog, trimmed to what a user-space implementation
// needs — there is no separate *g to point at, because the parked
// goroutine *is* whichever goroutine is blocked on wake.
type sudog struct {
	elem       *any           // recv destination / send source; nil for a pure-sync handoff
	wake       parkChan       // delivers the wake reason when this sudog is chosen
	selectDone *atomic.Uint32 // shared by every sudog of one select; nil otherwise
	isSelect   bool
	next       *sudog
}

var sudogPool = sync.Pool{New: func() any { return new(sudog) }}

// acquireSudog and releaseSudog mirror the teacher's proc.go
// acquireSudog/releaseSudog pair, backed by sync.Pool instead of a
// per-P free list — this is a short-lived, fixed-shape struct on a
// hot path, exactly the allocation sync.Pool exists for.
func acquireSudog() *sudog {
	sg := sudogPool.Get().(*sudog)
	*sg = sudog{}
	return sg
}

func releaseSudog(sg *sudog) {
	sg.elem = nil
	sg.wake = nil
	sg.selectDone = nil
	sg.next = nil
	sg.isSelect = false
	sudogPool.Put(sg)
}

// waitq is the FIFO of sudogs blocked on one channel in one direction.
type waitq struct {
	first, last *sudog
}

func (q *waitq) empty() bool { return q.first == nil }

// enqueue appends sg at the tail. O(1).
func (q *waitq) enqueue(sg *sudog) {
	sg.next = nil
	if q.first == nil {
		q.first = sg
		q.last = sg
		return
	}
	q.last.next = sg
	q.last = sg
}

// dequeue pops the oldest sudog that is not already claimed by a
// sibling select case. A popped sudog with a non-nil selectDone must
// win the CAS from 0 to 1 before it is handed back; failing that, it
// was already claimed by a concurrent waker racing on another of its
// channels, so it is dropped and the scan continues. O(k) in the
// number of already-claimed siblings encountered.
func (q *waitq) dequeue() *sudog {
	for {
		sg := q.first
		if sg == nil {
			return nil
		}
		q.first = sg.next
		if q.first == nil {
			q.last = nil
		}
		sg.next = nil
		if sg.selectDone == nil || sg.selectDone.CompareAndSwap(0, 1) {
			return sg
		}
	}
}

// remove unlinks sg from q, used only by select's pass-3 cleanup of
// the non-winning cases (spec.md §4.1). O(n).
func (q *waitq) remove(sg *sudog) bool {
	var prev *sudog
	for cur := q.first; cur != nil; cur = cur.next {
		if cur == sg {
			if prev == nil {
				q.first = cur.next
			} else {
				prev.next = cur.next
			}
			if cur == q.last {
				q.last = prev
			}
			cur.next = nil
			return true
		}
		prev = cur
	}
	return false
}
