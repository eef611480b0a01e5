package guardango

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/n0h4rt/guardango/models"
)

// ActionType represents the kind of side effect an [Action] asks for.
type ActionType int

const (
	// Send a text to a chat or a user.
	ActionNotify ActionType = iota + 1
	// Allow or deny a member sending messages.
	ActionRestrictMessaging
	// Remove a member, optionally unbanning right after (kick).
	ActionRemoveMember
	// Grant a member administrator rights.
	ActionPromoteMember
	// Delete a list of messages.
	ActionDeleteMessages
)

var actionTypeNames = map[ActionType]string{
	ActionNotify:            "notify",
	ActionRestrictMessaging: "restrict_messaging",
	ActionRemoveMember:      "remove_member",
	ActionPromoteMember:     "promote_member",
	ActionDeleteMessages:    "delete_messages",
}

// String returns the wire name of the ActionType.
func (t ActionType) String() string {
	if name, ok := actionTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements [encoding.TextMarshaler].
func (t ActionType) MarshalText() ([]byte, error) {
	if _, ok := actionTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown action type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *ActionType) UnmarshalText(text []byte) error {
	for kind, name := range actionTypeNames {
		if name == string(text) {
			*t = kind
			return nil
		}
	}
	return fmt.Errorf("unknown action type %q", text)
}

// Action describes a side effect the collaborator must perform on the chat platform.
// Actions are plain values; the engine never calls the platform itself.
type Action struct {
	ID          uuid.UUID         `json:"id"`
	Type        ActionType        `json:"type"`
	ChatID      int64             `json:"chat_id"`               // The chat to act in. For a direct notification, the user's private chat.
	UserID      int64             `json:"user_id,omitempty"`     // The member acted on.
	Text        string            `json:"text,omitempty"`        // Notify only.
	ReplyTo     int64             `json:"reply_to,omitempty"`    // Notify only; the message to reply to.
	Allow       bool              `json:"allow,omitempty"`       // RestrictMessaging only.
	AlsoUnban   bool              `json:"also_unban,omitempty"`  // RemoveMember only.
	Permissions models.Permission `json:"permissions,omitempty"` // PromoteMember only.
	MessageIDs  []int64           `json:"message_ids,omitempty"` // DeleteMessages only.
}

// Notify returns an Action sending text to a chat.
func Notify(chat int64, text string) Action {
	return Action{ID: uuid.New(), Type: ActionNotify, ChatID: chat, Text: text}
}

// NotifyUser returns an Action sending text to a user directly.
func NotifyUser(user int64, text string) Action {
	return Action{ID: uuid.New(), Type: ActionNotify, ChatID: user, UserID: user, Text: text}
}

// RestrictMessaging returns an Action allowing or denying the user to send messages in the chat.
func RestrictMessaging(chat, user int64, allow bool) Action {
	return Action{ID: uuid.New(), Type: ActionRestrictMessaging, ChatID: chat, UserID: user, Allow: allow}
}

// RemoveMember returns an Action removing the user from the chat.
// With alsoUnban the user is unbanned right after, which amounts to a kick.
func RemoveMember(chat, user int64, alsoUnban bool) Action {
	return Action{ID: uuid.New(), Type: ActionRemoveMember, ChatID: chat, UserID: user, AlsoUnban: alsoUnban}
}

// PromoteMember returns an Action granting the permissions to the user.
func PromoteMember(chat, user int64, permissions models.Permission) Action {
	return Action{ID: uuid.New(), Type: ActionPromoteMember, ChatID: chat, UserID: user, Permissions: permissions}
}

// DeleteMessages returns an Action deleting the messages from the chat.
func DeleteMessages(chat int64, messageIDs []int64) Action {
	return Action{ID: uuid.New(), Type: ActionDeleteMessages, ChatID: chat, MessageIDs: messageIDs}
}

// String returns a short human readable description of the Action, for logs.
func (a Action) String() string {
	var b strings.Builder

	b.WriteString(a.Type.String())
	b.WriteString(" chat=")
	b.WriteString(strconv.FormatInt(a.ChatID, 10))
	if a.UserID != 0 {
		b.WriteString(" user=")
		b.WriteString(strconv.FormatInt(a.UserID, 10))
	}

	switch a.Type {
	case ActionNotify:
		b.WriteString(" text=")
		b.WriteString(strconv.Quote(a.Text))
	case ActionRestrictMessaging:
		b.WriteString(" allow=")
		b.WriteString(strconv.FormatBool(a.Allow))
	case ActionRemoveMember:
		b.WriteString(" also_unban=")
		b.WriteString(strconv.FormatBool(a.AlsoUnban))
	case ActionPromoteMember:
		b.WriteString(" permissions=")
		b.WriteString(a.Permissions.String())
	case ActionDeleteMessages:
		b.WriteString(" messages=")
		b.WriteString(strconv.Itoa(len(a.MessageIDs)))
	}

	return b.String()
}

// Ack reports the outcome of executing an Action.
type Ack struct {
	ActionID uuid.UUID // The ID of the executed Action.
	Err      error     // Nil on success.
}
