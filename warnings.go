package guardango

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// WarnResult is the outcome of [WarningLedger.Warn].
type WarnResult struct {
	Count     int  // Warnings held by the user after this one.
	Escalated bool // True once Count reaches the ledger's limit.
}

// WarningLedger counts warnings per user.
//
// Counts only ever grow; an escalated user keeps its entry.
type WarningLedger struct {
	limit  int
	counts *xsync.MapOf[int64, int]
}

// NewWarningLedger creates a ledger escalating at limit warnings.
func NewWarningLedger(limit int) *WarningLedger {
	return &WarningLedger{
		limit:  limit,
		counts: xsync.NewMapOf[int64, int](),
	}
}

// Warn adds one warning to the user. The increment is atomic per user.
func (wl *WarningLedger) Warn(user int64) WarnResult {
	count, _ := wl.counts.Compute(user, func(old int, _ bool) (int, bool) {
		return old + 1, false
	})

	return WarnResult{Count: count, Escalated: count >= wl.limit}
}

// Query returns the user's warning count, 0 for unknown users.
func (wl *WarningLedger) Query(user int64) int {
	count, _ := wl.counts.Load(user)
	return count
}

// Limit returns the escalation threshold.
func (wl *WarningLedger) Limit() int {
	return wl.limit
}
