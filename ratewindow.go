package guardango

import (
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// RateWindow keeps a sliding window of message timestamps per user.
//
// Every operation on a user runs inside [xsync.MapOf.Compute] for that user's key,
// so evict-then-append is a single atomic step and different users never share a lock.
type RateWindow struct {
	maxMessages int
	window      time.Duration
	users       *xsync.MapOf[int64, []time.Time]
}

// NewRateWindow creates a RateWindow that flags more than maxMessages within window.
func NewRateWindow(maxMessages int, window time.Duration) *RateWindow {
	return &RateWindow{
		maxMessages: maxMessages,
		window:      window,
		users:       xsync.NewMapOf[int64, []time.Time](),
	}
}

// Record inserts now into the user's window, evicts timestamps older than the newest one minus
// the window, and reports whether the remaining count exceeds the limit.
//
// Timestamps are kept sorted, so an event that arrives late is judged against the messages
// around it rather than the ones after it. A timestamp exactly at the window boundary is still counted.
// Record does not reset the window on violation; callers do that with [RateWindow.Clear].
func (rw *RateWindow) Record(user int64, now time.Time) (violation bool) {
	rw.users.Compute(user, func(times []time.Time, _ bool) ([]time.Time, bool) {
		times = insert(times, now)
		times = evict(times, times[len(times)-1].Add(-rw.window))
		violation = len(times) > rw.maxMessages
		return times, false
	})

	return
}

// Clear empties the user's window.
func (rw *RateWindow) Clear(user int64) {
	rw.users.Delete(user)
}

// Len returns the number of timestamps currently held for the user, without evicting.
func (rw *RateWindow) Len(user int64) int {
	times, _ := rw.users.Load(user)
	return len(times)
}

// Sweep drops the windows of users whose every timestamp has fallen out of the window at now.
// It returns the number of windows dropped.
func (rw *RateWindow) Sweep(now time.Time) (dropped int) {
	cutoff := now.Add(-rw.window)

	for _, user := range rw.idleCandidates(cutoff) {
		rw.users.Compute(user, func(times []time.Time, loaded bool) ([]time.Time, bool) {
			if !loaded {
				return nil, true
			}
			times = evict(times, cutoff)
			if len(times) == 0 {
				dropped++
				return nil, true
			}
			return times, false
		})
	}

	return
}

// idleCandidates lists users whose newest timestamp is older than cutoff.
// Windows are sorted, so the newest timestamp is the last one.
// The check is repeated under Compute since a message may arrive in between.
func (rw *RateWindow) idleCandidates(cutoff time.Time) (users []int64) {
	rw.users.Range(func(user int64, times []time.Time) bool {
		if len(times) == 0 || times[len(times)-1].Before(cutoff) {
			users = append(users, user)
		}
		return true
	})

	return
}

// insert returns a new sorted slice with t added after any equal timestamps.
func insert(times []time.Time, t time.Time) []time.Time {
	i := sort.Search(len(times), func(i int) bool {
		return times[i].After(t)
	})

	out := make([]time.Time, 0, len(times)+1)
	out = append(out, times[:i]...)
	out = append(out, t)

	return append(out, times[i:]...)
}

// evict returns a new slice without the timestamps before cutoff.
// Stored slices are never written after publication, so readers outside Compute stay race free.
func evict(times []time.Time, cutoff time.Time) []time.Time {
	kept := make([]time.Time, 0, len(times))
	for _, t := range times {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}

	return kept
}
