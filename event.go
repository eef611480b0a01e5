package guardango

import (
	"fmt"
	"time"

	"github.com/n0h4rt/guardango/models"
)

// EventKind represents the kind of an event.
// Kinds are bit flags so that sets of kinds can be matched with a mask.
type EventKind int64

// Event kinds.
const (
	// A plain text message. Prefixed texts are parsed into command kinds.
	EventMessage EventKind = 1 << iota
	// A user joined the chat.
	EventJoin

	EventWarn
	EventBan
	EventKick
	EventMute
	EventUnmute
	EventPromote
	EventPurge
	EventLock
	EventUnlock
	EventSetRules
	EventSetWelcome
	EventWarnings
	EventKickMe
	EventAfk
	EventUnafk
	EventRules
	EventFeedback
	EventSuggest
	EventTag
	EventBroadcast
)

const (
	// AdminEvents require the sender to be an administrator or the creator of the chat.
	AdminEvents = EventWarn | EventBan | EventKick | EventMute | EventUnmute | EventPromote |
		EventPurge | EventLock | EventUnlock | EventSetRules | EventSetWelcome
	// OwnerEvents require the sender to be the configured owner.
	OwnerEvents = EventBroadcast
	// TargetEvents act on another user that must be resolved first.
	TargetEvents = EventWarn | EventBan | EventKick | EventMute | EventUnmute | EventPromote | EventWarnings
)

var eventKindNames = map[EventKind]string{
	EventMessage:    "message",
	EventJoin:       "join",
	EventWarn:       "warn",
	EventBan:        "ban",
	EventKick:       "kick",
	EventMute:       "mute",
	EventUnmute:     "unmute",
	EventPromote:    "promote",
	EventPurge:      "purge",
	EventLock:       "lock",
	EventUnlock:     "unlock",
	EventSetRules:   "setrules",
	EventSetWelcome: "setwelcome",
	EventWarnings:   "warnings",
	EventKickMe:     "kickme",
	EventAfk:        "afk",
	EventUnafk:      "unafk",
	EventRules:      "rules",
	EventFeedback:   "feedback",
	EventSuggest:    "suggest",
	EventTag:        "tag",
	EventBroadcast:  "broadcast",
}

var eventKindByName = func() map[string]EventKind {
	m := make(map[string]EventKind, len(eventKindNames))
	for kind, name := range eventKindNames {
		m[name] = kind
	}
	return m
}()

// String returns the name of the EventKind, which is also its command name.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements [encoding.TextMarshaler].
func (k EventKind) MarshalText() ([]byte, error) {
	if _, ok := eventKindNames[k]; !ok {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidEvent, int64(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *EventKind) UnmarshalText(text []byte) error {
	kind, ok := ParseEventKind(string(text))
	if !ok {
		return fmt.Errorf("%w: kind %q", ErrInvalidEvent, text)
	}
	*k = kind
	return nil
}

// ParseEventKind returns the EventKind with the given name.
func ParseEventKind(name string) (EventKind, bool) {
	kind, ok := eventKindByName[name]
	return kind, ok
}

// commandKind returns the command EventKind for a command name.
// Message and join are not commands.
func commandKind(command string) (EventKind, bool) {
	kind, ok := eventKindByName[command]
	if !ok || kind == EventMessage || kind == EventJoin {
		return 0, false
	}
	return kind, true
}

// Event is a normalized chat event delivered by the collaborator.
//
// Collaborators usually send plain "message" and "join" events; command kinds are derived from
// the text. A collaborator that dispatches commands itself may send the command kind directly
// with Arguments and Argument filled in.
type Event struct {
	Kind      EventKind    `json:"kind"`                // The kind of the event.
	ChatID    int64        `json:"chat_id"`             // The chat the event happened in.
	IsPrivate bool         `json:"is_private"`          // Indicates if the chat is a private conversation with the bot.
	User      *models.User `json:"user"`                // The sender of the message or command.
	Role      models.Role  `json:"role"`                // The sender's membership status, resolved by the collaborator.
	ReplyTo   *models.User `json:"reply_to,omitempty"`  // The author of the message being replied to, if any.
	MessageID int64        `json:"message_id"`          // The platform ID of the triggering message.
	Text      string       `json:"text,omitempty"`      // The raw message text.
	Command   string       `json:"command,omitempty"`   // The command name, set once the text is parsed.
	Arguments []string     `json:"arguments,omitempty"` // The whitespace separated command arguments.
	Argument  string       `json:"argument,omitempty"`  // Everything after the command.
	Time      time.Time    `json:"time"`                // When the event happened.
}
