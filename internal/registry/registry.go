// Package registry tracks every live channel for introspection: the
// CLI demo's inspect command reads a point-in-time snapshot rather
// than touching channel internals directly.
//
// The list is adapted from the teacher's container/list: a sentinel
// root node with intrusive prev/next links, specialized to hold
// *entry directly instead of container/list's interface{}-boxed
// Element, since every entry here is already the same concrete type.
package registry

import "sync"

// Snapshot is a read-only view of one channel's queue state at the
// moment it was taken.
type Snapshot struct {
	ID          uint64
	Cap         int
	Len         int
	SendWaiters int
	RecvWaiters int
	CapturedAt  int64 // cputicks-style timestamp, set by the Source
}

// Source is implemented by the channel type so the registry never
// needs to import it back (registry sits below rtchan in the import
// graph).
type Source interface {
	Snapshot() Snapshot
}

type entry struct {
	prev, next *entry
	id         uint64
	src        Source
}

var (
	mu   sync.RWMutex
	root = &entry{}
	byID = map[uint64]*entry{}
)

func init() {
	root.prev = root
	root.next = root
}

// Register adds src to the registry under id. id must be unique.
func Register(id uint64, src Source) {
	mu.Lock()
	defer mu.Unlock()
	e := &entry{id: id, src: src}
	back := root.prev
	back.next = e
	e.prev = back
	e.next = root
	root.prev = e
	byID[id] = e
}

// Deregister removes id from the registry. Safe to call even if id
// was never registered or was already removed.
func Deregister(id uint64) {
	mu.Lock()
	defer mu.Unlock()
	e, ok := byID[id]
	if !ok {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(byID, id)
}

// All returns a snapshot of every currently registered channel, in
// registration order.
func All() []Snapshot {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Snapshot, 0, len(byID))
	for e := root.next; e != root; e = e.next {
		out = append(out, e.src.Snapshot())
	}
	return out
}
