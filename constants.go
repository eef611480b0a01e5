package guardango

import (
	"errors"
	"strings"
	"time"
)

const (
	DEFAULT_MAX_MESSAGES   = 5
	DEFAULT_TIME_WINDOW    = 10 // seconds
	DEFAULT_WARN_LIMIT     = 3
	DEFAULT_PREFIX         = "/"
	DEFAULT_RULES          = "No rules set yet."
	DEFAULT_WELCOME        = "Welcome to the group!"
	DEFAULT_AFK_REASON     = "No reason provided"
	DEFAULT_WORKERS        = 4
	DEFAULT_PENDING_TTL    = 5 * time.Minute
	DEFAULT_SWEEP_INTERVAL = time.Minute
	DEFAULT_QUEUE_SIZE     = 256

	WEBSOCKET_ORIGIN  = "http://localhost/"
	EVENT_BUFFER_SIZE = 30
	PING_INTERVAL     = 90 * time.Second
	SYNC_SEND_TIMEOUT = 5 * time.Second
	BASE_BACKOFF_DUR  = 1 * time.Second
	MAX_BACKOFF_DUR   = 30 * time.Second
	MAX_RETRIES       = 10
	MSG_LENGTH_MAX    = 4096
)

var (
	ErrTargetNotResolved    = errors.New("target not resolved")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrGroupOnly            = errors.New("group only")
	ErrNoArgument           = errors.New("no argument")
	ErrInvalidEvent         = errors.New("invalid event")
	ErrPlatformActionFailed = errors.New("platform action failed")
	ErrHandlerPanicked      = errors.New("handler panicked")

	ErrNotInitialized   = errors.New("not initialized")
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrRetryEnds        = errors.New("retry ends")
	ErrTimeout          = errors.New("timeout")
	ErrQueueClosed      = errors.New("queue closed")
)

// ReplyTmpl holds the texts of every Notify the engine emits.
// Placeholders are wrapped in asterisks and filled by [render].
var ReplyTmpl = map[string]string{
	"no_target":        "Please reply to a user or specify a user ID/username.",
	"no_target_hint":   "Please reply to a user or specify a user ID/username. Did you mean @*name*?",
	"admin_only":       "You need to be admin to use this!",
	"owner_only":       "🚫 This command is restricted to the owner only!",
	"group_only":       "This command only works in groups!",
	"warned":           "User *user* has been warned! (*count*/*limit*)",
	"warn_banned":      "User *user* has been banned for exceeding warning limits!",
	"banned":           "User *user* has been banned!",
	"kicked":           "User *user* has been kicked!",
	"muted":            "🔇 User *user* has been muted!",
	"unmuted":          "🔊 User *user* has been unmuted!",
	"flood_muted":      "🔇 User *user* has been muted for flooding!",
	"promoted":         "User *user* has been promoted to admin!",
	"purged":           "Purged *count* messages!",
	"kickme":           "You have left the group!",
	"failed":           "❌ Failed to *verb*: *err*",
	"afk_set":          "🚶 You are now AFK: *reason*",
	"afk_cleared":      "✅ You are no longer AFK!",
	"afk_notice":       "🚶 User is AFK: *reason*",
	"afk_notice_named": "🚶 *user* is AFK: *reason*",
	"locked":           "🔒 Group has been locked!",
	"unlocked":         "🔓 Group has been unlocked!",
	"rules":            "📜 Group Rules:\n*rules*",
	"rules_set":        "✅ Rules have been updated!",
	"welcome_set":      "✅ Welcome message has been updated!",
	"warnings":         "User *user* has *count* warnings.",
	"no_warnings":      "User *user* has no warnings.",
	"feedback":         "📝 Feedback from *user*:\n*text*",
	"suggestion":       "💡 Suggestion from *user*:\n*text*",
	"feedback_sent":    "✅ Feedback sent!",
	"suggestion_sent":  "✅ Suggestion sent!",
	"broadcast":        "📢 Broadcast:\n*text*",
	"usage":            "Usage: /*command* *args*",
	"purge_positive":   "Please specify a positive number.",
}

// render fills the template named key with the given placeholder/value pairs.
func render(key string, pairs ...string) string {
	tmpl := ReplyTmpl[key]
	if len(pairs) == 0 {
		return tmpl
	}

	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "*"+pairs[i]+"*", pairs[i+1])
	}

	return strings.NewReplacer(oldnew...).Replace(tmpl)
}
