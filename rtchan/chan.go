// Package rtchan reimplements the Go runtime's channel and select
// primitives in user space: a typed façade (Chan[T]) over a
// type-erased core engine (channel), with its own WaitQ, select
// algorithm, and close semantics, built the way the runtime itself
// builds them rather than by wrapping the language's own chan.
package rtchan

// Chan is a typed handle onto a channel. The zero value is not usable;
// construct one with NewChan. Chan boxes every element into the core
// engine's any-typed storage and unboxes on the way back out — the
// same type-erasure-by-boxing the engine uses in place of the
// teacher's unsafe.Pointer-and-descriptor element storage
// (SPEC_FULL.md §3).
type Chan[T any] struct {
	c *channel
}

// NewChan creates a channel of the given capacity. capacity == 0 is a
// synchronous, unbuffered (rendezvous) channel; capacity < 0 panics
// with the stable "makechan: size out of range" string (spec.md §4.2,
// SPEC_FULL.md §11). No upper bound on capacity is checked: a huge
// capacity is not reported with that panic.
func NewChan[T any](capacity int) *Chan[T] {
	return &Chan[T]{c: newChannel(capacity)}
}

// core implements channelHandle, letting a *Chan[T] take part in a
// heterogeneously-typed Select without Select itself being generic.
func (ch *Chan[T]) core() *channel {
	if ch == nil {
		return nil
	}
	return ch.c
}

// Send blocks until v is delivered to a receiver or buffered.
// Panics on a closed channel; blocks forever on a nil *Chan[T].
func (ch *Chan[T]) Send(v T) {
	ch.core().send(any(v), true)
}

// TrySend is the non-blocking variant: ok is false if no receiver or
// buffer slot was immediately available. Still panics on close.
func (ch *Chan[T]) TrySend(v T) (ok bool) {
	return ch.core().send(any(v), false)
}

// Recv blocks until a value is available or the channel is closed.
// ok is false exactly when the channel was closed and drained.
func (ch *Chan[T]) Recv() (v T, ok bool) {
	var out any
	_, ok = ch.core().recv(&out, true)
	v, _ = unbox[T](out)
	return v, ok
}

// TryRecv is the non-blocking variant: selected is false if nothing
// was immediately available to receive.
func (ch *Chan[T]) TryRecv() (v T, ok bool, selected bool) {
	var out any
	selected, ok = ch.core().recv(&out, false)
	if selected {
		v, _ = unbox[T](out)
	}
	return v, ok, selected
}

// Close marks the channel closed (spec.md §4.6). Panics on a nil
// channel or a channel already closed.
func (ch *Chan[T]) Close() {
	ch.core().closeChan()
}

// Len reports the number of buffered, unreceived elements.
func (ch *Chan[T]) Len() int { return ch.core().Len() }

// Cap reports the channel's buffer capacity.
func (ch *Chan[T]) Cap() int { return ch.core().Cap() }

// unbox recovers a T from the engine's any-typed storage. A nil value
// (the closed-channel zero-value contract, spec.md §4.4) unboxes to
// T's own zero value.
func unbox[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
