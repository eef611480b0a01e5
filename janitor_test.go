package guardango

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(time.Time) {
	s.calls.Add(1)
}

func TestJanitor_Runner(t *testing.T) {
	sweeper := &countingSweeper{}
	janitor := &Janitor{Sweeper: sweeper, Interval: 10 * time.Millisecond}

	janitor.Runner(context.Background())
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	janitor.Close()
	calls := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, sweeper.calls.Load())
}

func TestJanitor_DefaultsAndClose(t *testing.T) {
	janitor := &Janitor{Sweeper: &countingSweeper{}}

	// Closing a janitor that never ran is a no-op.
	janitor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	janitor.Runner(ctx)
	assert.Equal(t, DEFAULT_SWEEP_INTERVAL, janitor.Interval)

	cancel()
	janitor.Close()
}
