package rtchan

import "context"

// FromContext adapts an external cancellation signal — anything
// satisfying context.Context, the same composition point the
// teacher's context.go builds cancelCtx around — into a Chan[struct{}]
// that closes exactly once, when ctx is done. This is the bridge
// spec.md §4.11 calls for: external cancellation composed with
// Select rather than reimplemented by it.
//
// The returned channel is closed asynchronously by a background
// goroutine that exits as soon as ctx.Done() fires; it never sends a
// value, matching ctx.Done()'s own receive-only, close-only contract.
func FromContext(ctx context.Context) *Chan[struct{}] {
	ch := NewChan[struct{}](0)
	go func() {
		<-ctx.Done()
		ch.Close()
	}()
	return ch
}
