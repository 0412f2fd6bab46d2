package rtchan

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/rtchan/rtchan/internal/registry"
	"github.com/rtchan/rtchan/internal/ringbuf"
)

var nextChanID atomic.Uint64

// channel is the type-erased core — the direct analogue of the
// teacher's hchan, minus the raw byte buffer and type descriptor:
// Go's own interface boxing plays the role element_size/element_type
// play in the original (see SPEC_FULL.md §3).
type channel struct {
	mu sync.Mutex

	id       uint64
	buf      *ringbuf.Buffer // nil when dataqsiz == 0 (rendezvous channel)
	dataqsiz int
	qcount   int
	closed   atomic.Bool

	recvq waitq
	sendq waitq
}

// newChannel is make_channel (spec.md §4.2). capacity < 0 panics with
// the stable size-out-of-range string; there is no elem_size to
// overflow-check against an address space here (see SPEC_FULL.md §3),
// so that half of the original check has no analogue in this module.
func newChannel(capacity int) *channel {
	if capacity < 0 {
		panic(panicSizeRange)
	}
	c := &channel{
		id:       nextChanID.Inc(),
		dataqsiz: capacity,
	}
	if capacity > 0 {
		c.buf = ringbuf.New(capacity)
	}
	registry.Register(c.id, c)
	runtime.SetFinalizer(c, func(c *channel) { registry.Deregister(c.id) })
	return c
}

// Len returns qcount, 0 for a nil channel (spec.md §4.2).
func (c *channel) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qcount
}

// Cap returns dataqsiz, 0 for a nil channel (spec.md §4.2).
func (c *channel) Cap() int {
	if c == nil {
		return 0
	}
	return c.dataqsiz
}

// Snapshot implements registry.Source.
func (c *channel) Snapshot() registry.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return registry.Snapshot{
		ID:          c.id,
		Cap:         c.dataqsiz,
		Len:         c.qcount,
		SendWaiters: waitqLen(&c.sendq),
		RecvWaiters: waitqLen(&c.recvq),
		CapturedAt:  cputicks(),
	}
}

func waitqLen(q *waitq) int {
	n := 0
	for sg := q.first; sg != nil; sg = sg.next {
		n++
	}
	return n
}
