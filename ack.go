package guardango

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// pendingEffect is what the engine does once an Action is acknowledged.
type pendingEffect struct {
	actionType ActionType
	chatID     int64     // Where the confirmation or failure text goes.
	replyTo    int64     // The message that triggered the Action.
	target     int64     // The user whose state apply mutates.
	apply      func()    // State change that only happens on success. May be nil.
	success    string    // Confirmation text. Empty for none.
	verb       string    // Used in the failure text, e.g. "mute user".
	silent     bool      // Failures are swallowed.
	created    time.Time // For expiry by Sweep.
}

// track registers the effect to run when the Action is acknowledged.
func (e *Engine) track(action Action, effect pendingEffect) Action {
	effect.actionType = action.Type
	effect.created = e.now()
	e.pending.Store(action.ID, effect)

	return action
}

// Acknowledge applies the outcome of an executed Action.
//
// On success the deferred state change runs under the target's lock and the confirmation is
// returned. On failure no state changes and a failure notice is returned, unless the Action
// was a best-effort delivery. Unknown or already acknowledged IDs return nil.
func (e *Engine) Acknowledge(ack Ack) []Action {
	effect, ok := e.pending.LoadAndDelete(ack.ActionID)
	if !ok {
		return nil
	}

	if ack.Err != nil {
		actionFailCount.WithLabelValues(effect.actionType.String()).Inc()
		err := fmt.Errorf("%w: %w", ErrPlatformActionFailed, ack.Err)

		if effect.silent {
			log.Debug().Str("Action", ack.ActionID.String()).Err(err).Msg("Best-effort action failed")
			return nil
		}

		log.Debug().Str("Action", ack.ActionID.String()).Int64("User", effect.target).Err(err).Msg("Action failed")
		return e.emit(e.notice(effect, render("failed", "verb", effect.verb, "err", ack.Err.Error())))
	}

	if effect.apply != nil {
		unlock := e.lockUser(effect.target)
		effect.apply()
		unlock()
	}

	if effect.success == "" {
		return nil
	}

	return e.emit(e.notice(effect, effect.success))
}

// notice addresses a follow-up text to where the tracked Action came from.
func (e *Engine) notice(effect pendingEffect, text string) Action {
	action := Notify(effect.chatID, text)
	action.ReplyTo = effect.replyTo

	return action
}

// Sweep drops pending effects older than the pending TTL and idle rate windows.
func (e *Engine) Sweep(now time.Time) {
	cutoff := now.Add(-e.config.PendingTTL)

	var expired int
	e.pending.Range(func(id uuid.UUID, effect pendingEffect) bool {
		if effect.created.Before(cutoff) {
			if _, ok := e.pending.LoadAndDelete(id); ok {
				expired++
			}
		}
		return true
	})
	pendingExpireCount.Add(float64(expired))

	dropped := e.rates.Sweep(now)

	log.Debug().Int("Expired", expired).Int("Windows", dropped).Msg("Swept engine state")
}
