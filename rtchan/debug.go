package rtchan

import "github.com/rtchan/rtchan/internal/registry"

// Snapshot is a read-only view of one live channel's state, as
// reported by Inspect.
type Snapshot = registry.Snapshot

// Inspect returns a snapshot of every channel currently registered —
// i.e. every channel created via NewChan that has not yet been
// garbage collected (SPEC_FULL.md §4.10). Intended for debugging and
// tests, not for synchronization: the set can change the instant
// after Inspect returns.
func Inspect() []Snapshot {
	return registry.All()
}
