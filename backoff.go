package guardango

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Backoff represents a backoff mechanism with configurable duration and maximum duration.
type Backoff struct {
	Duration    time.Duration // Duration represents the current backoff duration.
	MaxDuration time.Duration // MaxDuration is the maximum allowed backoff duration.

	mu     sync.Mutex
	cancel context.CancelFunc // cancel stops the ongoing `Backoff.Sleep()`.
}

// increment doubles the backoff duration, capped at MaxDuration.
func (b *Backoff) increment() {
	if b.Duration < b.MaxDuration {
		b.Duration *= 2
	}

	if b.Duration > b.MaxDuration {
		b.Duration = b.MaxDuration
	}
}

// Sleep is a mock of time.Sleep(), that is also responsive to the cancel signal.
// It waits for the current duration plus up to a quarter of it as jitter.
// Returns true if the sleep was cancelled before the deadline, false otherwise.
func (b *Backoff) Sleep(ctx context.Context) bool {
	wait := b.Duration
	if jitter := int64(b.Duration) / 4; jitter > 0 {
		wait += time.Duration(rand.Int63n(jitter))
	}

	sleepCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	<-sleepCtx.Done()
	b.increment()

	return sleepCtx.Err() != context.DeadlineExceeded
}

// Cancel cancels the ongoing backoff sleep, if any.
func (b *Backoff) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
}

// NewBackoff returns a Backoff starting at BASE_BACKOFF_DUR and capped at MAX_BACKOFF_DUR.
func NewBackoff() *Backoff {
	return &Backoff{
		Duration:    BASE_BACKOFF_DUR,
		MaxDuration: MAX_BACKOFF_DUR,
	}
}
