package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubReleaser counts sweep calls and can be scripted to fail.
type stubReleaser struct {
	calls    atomic.Int64
	released int64
	err      error
}

func (s *stubReleaser) ReleaseExpired(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return s.released, s.err
}

func TestSweeperSweepsUntilCancelled(t *testing.T) {
	rel := &stubReleaser{released: 3}
	sw := NewSweeper(rel, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rel.calls.Load() >= 2 },
		time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestSweeperKeepsRunningAfterCycleError(t *testing.T) {
	rel := &stubReleaser{err: errors.New("db gone")}
	sw := NewSweeper(rel, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sw.Run(ctx)

	// Several failing cycles must happen; the loop must not die on the first.
	assert.Eventually(t, func() bool { return rel.calls.Load() >= 3 },
		time.Second, time.Millisecond)
}
