package rtchan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := FromContext(ctx)

	done := make(chan struct{})
	go func() {
		_, ok := ch.Recv()
		assert.False(t, ok)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("FromContext channel closed before ctx was canceled")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FromContext channel did not close after ctx cancellation")
	}
}

func TestFromContextClosesOnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ch := FromContext(ctx)

	_, ok := ch.Recv()
	assert.False(t, ok)
}

// Cancel-before-send: a send case racing an already-canceled
// context's FromContext channel in the same select must pick the
// cancellation branch, matching the pipeline demo's pattern
// (cmd/rtchandemo/pipeline.go).
func TestFromContextWinsSelectWhenAlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancelCh := FromContext(ctx)

	nums := NewChan[int](0) // unbuffered with no receiver: the send case alone would block forever
	sel := NewSelect(2)
	sel.Send(nums, 0, 1)
	sel.Recv(cancelCh, 1)

	idx, _, _ := sel.Go()
	assert.Equal(t, 1, idx)
}

// Cancel-after-close: once ctx.Done() has already fired and the
// bridged channel has already closed, recv must keep returning
// (zero, false), and a redundant cancel() call (context.CancelFunc is
// itself idempotent) must not make FromContext attempt a second
// Close and panic.
func TestFromContextCancelAfterCloseIsSafe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := FromContext(ctx)
	cancel()

	_, ok := ch.Recv()
	require.False(t, ok)

	assert.NotPanics(t, func() { cancel() })

	_, ok = ch.Recv()
	assert.False(t, ok)
}
