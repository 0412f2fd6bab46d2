// Package ringbuf is a circular buffer specialized for channel slot
// storage. It is adapted from the teacher's container/ring: instead of
// a general Ring with Next/Prev/Move/Do, it keeps two independent
// forward-only cursors (send and recv) walking the same fixed cycle
// of nodes, which is all a channel's sendx/recvx indices ever need.
package ringbuf

type node struct {
	next *node
	val  any
}

// Buffer is the backing store for a buffered channel. A nil *Buffer
// represents an unbuffered (capacity-0) channel and must never be
// Put to or Take from.
type Buffer struct {
	sendCursor *node
	recvCursor *node
	size       int
}

// New builds a ring of n empty slots. n must be > 0.
func New(n int) *Buffer {
	if n <= 0 {
		return nil
	}
	first := &node{}
	p := first
	for i := 1; i < n; i++ {
		p.next = &node{}
		p = p.next
	}
	p.next = first
	return &Buffer{sendCursor: first, recvCursor: first, size: n}
}

// Len reports the ring's fixed capacity (not the number of occupied slots —
// the channel itself tracks qcount).
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Put stores v at the current send cursor and advances it.
func (b *Buffer) Put(v any) {
	b.sendCursor.val = v
	b.sendCursor = b.sendCursor.next
}

// Take reads the value at the current recv cursor, clears the slot
// (so a retained reference can't keep a heap object alive — the same
// reason the spec calls out zeroing a received slot) and advances.
func (b *Buffer) Take() any {
	v := b.recvCursor.val
	b.recvCursor.val = nil
	b.recvCursor = b.recvCursor.next
	return v
}
