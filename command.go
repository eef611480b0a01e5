package guardango

import (
	"strconv"

	"github.com/n0h4rt/guardango/utils"
)

// parseCommand fills the command fields of a prefixed message event.
//
// It returns false for prefixed texts that name no known command; such events are dropped
// without touching any store. Non-prefixed messages and non-message events pass unchanged.
func parseCommand(event *Event, prefix string) bool {
	if event.Kind != EventMessage {
		return true
	}

	command, arguments, argument, ok := utils.SplitCommand(event.Text, prefix)
	if !ok {
		return true
	}

	kind, ok := commandKind(command)
	if !ok {
		return false
	}

	event.Kind = kind
	event.Command = command
	event.Arguments = arguments
	event.Argument = argument

	return true
}

// resolveTarget finds the user a command acts on.
//
// The author of the replied-to message wins, then an "@username" argument looked up in the
// directory, then a numeric ID argument. On failure the returned Action asks for clarification.
func (e *Engine) resolveTarget(event *Event) (int64, *Action, error) {
	if event.ReplyTo != nil && event.ReplyTo.ID != 0 {
		return event.ReplyTo.ID, nil, nil
	}

	if len(event.Arguments) > 0 {
		id, username, ok := utils.ParseUserRef(event.Arguments[0])
		switch {
		case ok && username != "":
			if id, found := e.directory.Lookup(username); found {
				return id, nil, nil
			}
			if suggestion, found := e.directory.Suggest(username); found {
				action := e.reply(event, render("no_target_hint", "name", suggestion))
				return 0, &action, ErrTargetNotResolved
			}
		case ok:
			return id, nil, nil
		}
	}

	action := e.reply(event, render("no_target"))
	return 0, &action, ErrTargetNotResolved
}

// formatID renders a user ID the way confirmation texts show it.
func formatID(user int64) string {
	return strconv.FormatInt(user, 10)
}
