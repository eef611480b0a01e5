package guardango

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper drops state that has expired at the given time.
type Sweeper interface {
	Sweep(now time.Time)
}

// Janitor calls a Sweeper periodically.
// If the interval is not positive, DEFAULT_SWEEP_INTERVAL is used.
type Janitor struct {
	Sweeper   Sweeper            // What to sweep.
	Interval  time.Duration      // Interval between sweeps.
	context   context.Context    // Context for running the sweep loop.
	cancelCtx context.CancelFunc // Function for stopping the sweep loop.
	done      chan struct{}
}

// Runner starts the sweep loop in the background.
func (j *Janitor) Runner(ctx context.Context) {
	j.context, j.cancelCtx = context.WithCancel(ctx)

	if j.Interval <= 0 {
		j.Interval = DEFAULT_SWEEP_INTERVAL
	}

	j.done = make(chan struct{})
	go j.autoSweep()
}

// Close stops the sweep loop and waits for it to exit.
func (j *Janitor) Close() {
	if j.cancelCtx == nil {
		return
	}

	j.cancelCtx()
	<-j.done
}

// autoSweep is a goroutine that periodically sweeps expired state.
func (j *Janitor) autoSweep() {
	defer close(j.done)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			log.Debug().Dur("Interval", j.Interval).Msg("Janitor sweep")
			j.Sweeper.Sweep(now)
		case <-j.context.Done():
			return
		}
	}
}
