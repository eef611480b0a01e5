package guardango

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// PresenceRegistry tracks the AFK reason and mute flag of each user.
type PresenceRegistry struct {
	afk   *xsync.MapOf[int64, string]
	muted *xsync.MapOf[int64, bool]
}

// NewPresenceRegistry creates an empty registry.
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		afk:   xsync.NewMapOf[int64, string](),
		muted: xsync.NewMapOf[int64, bool](),
	}
}

// SetAfk marks the user AFK, overwriting any previous reason.
func (pr *PresenceRegistry) SetAfk(user int64, reason string) {
	pr.afk.Store(user, reason)
}

// ClearAfk removes the user's AFK mark and reports whether there was one.
func (pr *PresenceRegistry) ClearAfk(user int64) bool {
	_, existed := pr.afk.LoadAndDelete(user)
	return existed
}

// IsAfk returns the user's AFK reason, if set.
func (pr *PresenceRegistry) IsAfk(user int64) (reason string, ok bool) {
	return pr.afk.Load(user)
}

// SetMuted records whether the user is muted.
func (pr *PresenceRegistry) SetMuted(user int64, muted bool) {
	if muted {
		pr.muted.Store(user, true)
		return
	}

	pr.muted.Delete(user)
}

// IsMuted reports whether the user is recorded as muted.
func (pr *PresenceRegistry) IsMuted(user int64) bool {
	muted, _ := pr.muted.Load(user)
	return muted
}
