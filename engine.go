package guardango

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/n0h4rt/guardango/models"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
)

// guard rejects the events its deny filter matches.
type guard struct {
	deny   Filter
	err    error
	reply  string // ReplyTmpl key of the rejection notice.
	reason string // Metric label.
}

// groupOnlyEvents cannot be used in a private conversation with the bot.
const groupOnlyEvents = AdminEvents | EventKickMe | EventTag

// Engine is the moderation state machine.
//
// It turns normalized events into Actions and owns every per-user store. Handle and Acknowledge
// are safe for concurrent use; work on different users never shares a lock.
type Engine struct {
	config *Config

	rates     *RateWindow
	warnings  *WarningLedger
	presence  *PresenceRegistry
	directory *MemberDirectory
	settings  SyncMap[int64, models.GroupSettings]

	locks   *xsync.MapOf[int64, *sync.Mutex]
	pending *xsync.MapOf[uuid.UUID, pendingEffect]

	guards   []guard
	handlers map[EventKind]handlerFunc
	now      func() time.Time
}

// NewEngine creates an Engine with empty stores sized by the config.
// The config is expected to have gone through [LoadConfig] or [Config.Normalize].
func NewEngine(config *Config) *Engine {
	e := &Engine{
		config:    config,
		rates:     NewRateWindow(config.MaxMessages, config.Window()),
		warnings:  NewWarningLedger(config.WarnLimit),
		presence:  NewPresenceRegistry(),
		directory: NewMemberDirectory(),
		settings:  NewSyncMap[int64, models.GroupSettings](),
		locks:     xsync.NewMapOf[int64, *sync.Mutex](),
		pending:   xsync.NewMapOf[uuid.UUID, pendingEffect](),
		handlers:  defaultHandlers(),
		now:       time.Now,
	}

	e.guards = []guard{
		{NewKindFilter(groupOnlyEvents).And(NewPrivateFilter()), ErrGroupOnly, "group_only", "group_only"},
		{NewKindFilter(AdminEvents).And(NewAdminFilter().Not()), ErrUnauthorized, "admin_only", "not_admin"},
		{NewKindFilter(OwnerEvents).And(NewUserFilter(config.OwnerID).Not()), ErrUnauthorized, "owner_only", "not_owner"},
	}

	return e
}

// Handle processes one event and returns the Actions the collaborator must perform.
//
// Rejections (guards, unresolved targets) return the clarification Notify together with the
// matching sentinel error. A panic inside a handler is recovered into [ErrHandlerPanicked];
// it never reaches the caller's event loop.
func (e *Engine) Handle(event *Event) (actions []Action, err error) {
	if event == nil || event.User == nil || event.User.ID == 0 {
		return nil, ErrInvalidEvent
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("Kind", event.Kind.String()).Int64("User", event.User.ID).Interface("Panic", r).Msg("Recovered from panic while handling event")
			actions, err = nil, fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()

	if !parseCommand(event, e.config.Prefix) {
		log.Debug().Str("Text", event.Text).Msg("Ignored unknown command")
		return nil, nil
	}

	if event.Time.IsZero() {
		event.Time = e.now()
	}

	kind := event.Kind.String()
	start := time.Now()
	defer func() {
		eventHandleDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()
	eventHandleCount.WithLabelValues(kind).Inc()

	for _, g := range e.guards {
		if g.deny.Check(event) {
			eventRejectCount.WithLabelValues(kind, g.reason).Inc()
			log.Debug().Str("Kind", kind).Int64("User", event.User.ID).Str("Reason", g.reason).Msg("Rejected event")
			return e.emit(e.reply(event, render(g.reply))), g.err
		}
	}

	handler, ok := e.handlers[event.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: kind %s", ErrInvalidEvent, kind)
	}

	actions, err = handler(e, event)
	if errors.Is(err, ErrTargetNotResolved) {
		eventRejectCount.WithLabelValues(kind, "no_target").Inc()
	}

	return e.emit(actions...), err
}

// Directory returns the member directory.
func (e *Engine) Directory() *MemberDirectory {
	return e.directory
}

// Presence returns the presence registry.
func (e *Engine) Presence() *PresenceRegistry {
	return e.presence
}

// Warnings returns the warning ledger.
func (e *Engine) Warnings() *WarningLedger {
	return e.warnings
}

// Rates returns the flood control windows.
func (e *Engine) Rates() *RateWindow {
	return e.rates
}

// Settings returns the settings of the chat, or the configured defaults.
func (e *Engine) Settings(chat int64) models.GroupSettings {
	if settings, ok := e.settings.Get(chat); ok {
		return settings
	}
	return e.defaultSettings()
}

// Pending returns the number of Actions waiting for an acknowledgement.
func (e *Engine) Pending() int {
	return e.pending.Size()
}

func (e *Engine) defaultSettings() models.GroupSettings {
	return models.GroupSettings{Rules: e.config.Rules, Welcome: e.config.Welcome}
}

// updateSettings applies fun to the chat's settings.
func (e *Engine) updateSettings(chat int64, fun func(*models.GroupSettings)) {
	e.settings.Update(chat, func(settings models.GroupSettings, ok bool) models.GroupSettings {
		if !ok {
			settings = e.defaultSettings()
		}
		fun(&settings)
		return settings
	})
}

// lockUser serializes multi-store updates on one user. The returned func releases the lock.
func (e *Engine) lockUser(user int64) func() {
	mu, _ := e.locks.LoadOrCompute(user, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()

	return mu.Unlock
}

// reply returns a Notify answering the event's message.
func (e *Engine) reply(event *Event, text string) Action {
	action := Notify(event.ChatID, text)
	action.ReplyTo = event.MessageID

	return action
}

// emit counts the actions on their way out.
func (e *Engine) emit(actions ...Action) []Action {
	for _, action := range actions {
		actionEmitCount.WithLabelValues(action.Type.String()).Inc()
	}

	return actions
}
