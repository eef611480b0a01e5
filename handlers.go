package guardango

import (
	"strconv"
	"strings"

	"github.com/n0h4rt/guardango/models"
	"github.com/n0h4rt/guardango/utils"
)

// MAX_PURGE is the most messages one purge command deletes.
const MAX_PURGE = 100

// handlerFunc handles one kind of event. Guards have already run.
type handlerFunc func(*Engine, *Event) ([]Action, error)

func defaultHandlers() map[EventKind]handlerFunc {
	return map[EventKind]handlerFunc{
		EventMessage:    (*Engine).onMessage,
		EventJoin:       (*Engine).onJoin,
		EventWarn:       (*Engine).onWarn,
		EventBan:        (*Engine).onBan,
		EventKick:       (*Engine).onKick,
		EventMute:       (*Engine).onMute,
		EventUnmute:     (*Engine).onUnmute,
		EventPromote:    (*Engine).onPromote,
		EventPurge:      (*Engine).onPurge,
		EventLock:       (*Engine).onLock,
		EventUnlock:     (*Engine).onUnlock,
		EventSetRules:   (*Engine).onSetRules,
		EventSetWelcome: (*Engine).onSetWelcome,
		EventWarnings:   (*Engine).onWarnings,
		EventKickMe:     (*Engine).onKickMe,
		EventAfk:        (*Engine).onAfk,
		EventUnafk:      (*Engine).onUnafk,
		EventRules:      (*Engine).onRules,
		EventFeedback:   (*Engine).onFeedback,
		EventSuggest:    (*Engine).onSuggest,
		EventTag:        (*Engine).onTag,
		EventBroadcast:  (*Engine).onBroadcast,
	}
}

// effect builds the pending effect of an Action taken on target for the event's sender.
func (e *Engine) effect(event *Event, target int64, success, verb string, apply func()) pendingEffect {
	return pendingEffect{
		chatID:  event.ChatID,
		replyTo: event.MessageID,
		target:  target,
		apply:   apply,
		success: success,
		verb:    verb,
	}
}

// usage returns the usage Notify of the event's command.
func (e *Engine) usage(event *Event, args string) []Action {
	return []Action{e.reply(event, render("usage", "command", event.Command, "args", args))}
}

func (e *Engine) onMessage(event *Event) ([]Action, error) {
	user := event.User.ID
	unlock := e.lockUser(user)
	defer unlock()

	var actions []Action

	if e.rates.Record(user, event.Time) {
		e.rates.Clear(user)
		floodViolationCount.Inc()

		restrict := e.track(RestrictMessaging(event.ChatID, user, false), e.effect(event, user, "", "mute user", func() {
			e.presence.SetMuted(user, true)
		}))
		actions = append(actions, restrict, e.reply(event, render("flood_muted", "user", formatID(user))))
	}

	e.directory.Observe(user, event.User.DisplayName())

	if reason, ok := e.presence.IsAfk(user); ok {
		actions = append(actions, e.reply(event, render("afk_notice", "reason", reason)))
	}

	if event.ReplyTo != nil && event.ReplyTo.ID != user {
		if reason, ok := e.presence.IsAfk(event.ReplyTo.ID); ok {
			name := event.ReplyTo.DisplayName()
			if known, found := e.directory.Name(event.ReplyTo.ID); found {
				name = known
			}
			actions = append(actions, e.reply(event, render("afk_notice_named", "user", name, "reason", reason)))
		}
	}

	return actions, nil
}

func (e *Engine) onJoin(event *Event) ([]Action, error) {
	e.directory.Observe(event.User.ID, event.User.DisplayName())

	return []Action{Notify(event.ChatID, e.Settings(event.ChatID).Welcome)}, nil
}

func (e *Engine) onWarn(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	result := e.warnings.Warn(target)
	if result.Escalated {
		remove := RemoveMember(event.ChatID, target, false)
		return []Action{e.track(remove, e.effect(event, target, render("warn_banned", "user", formatID(target)), "ban user", nil))}, nil
	}

	return []Action{e.reply(event, render("warned",
		"user", formatID(target),
		"count", strconv.Itoa(result.Count),
		"limit", strconv.Itoa(e.warnings.Limit()),
	))}, nil
}

func (e *Engine) onBan(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	remove := RemoveMember(event.ChatID, target, false)
	return []Action{e.track(remove, e.effect(event, target, render("banned", "user", formatID(target)), "ban user", nil))}, nil
}

func (e *Engine) onKick(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	remove := RemoveMember(event.ChatID, target, true)
	return []Action{e.track(remove, e.effect(event, target, render("kicked", "user", formatID(target)), "kick user", nil))}, nil
}

func (e *Engine) onMute(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	restrict := RestrictMessaging(event.ChatID, target, false)
	return []Action{e.track(restrict, e.effect(event, target, render("muted", "user", formatID(target)), "mute user", func() {
		e.presence.SetMuted(target, true)
	}))}, nil
}

func (e *Engine) onUnmute(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	restrict := RestrictMessaging(event.ChatID, target, true)
	return []Action{e.track(restrict, e.effect(event, target, render("unmuted", "user", formatID(target)), "unmute user", func() {
		e.presence.SetMuted(target, false)
	}))}, nil
}

func (e *Engine) onPromote(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	promote := PromoteMember(event.ChatID, target, models.AdminPermissions)
	return []Action{e.track(promote, e.effect(event, target, render("promoted", "user", formatID(target)), "promote user", nil))}, nil
}

func (e *Engine) onPurge(event *Event) ([]Action, error) {
	if len(event.Arguments) == 0 || !utils.IsDigit(event.Arguments[0]) {
		return e.usage(event, "<number>"), ErrNoArgument
	}

	count, _ := strconv.Atoi(event.Arguments[0])
	if count <= 0 {
		return []Action{e.reply(event, render("purge_positive"))}, ErrNoArgument
	}
	count = min(count, MAX_PURGE)

	ids := make([]int64, 0, count)
	for i := 1; i <= count; i++ {
		if id := event.MessageID - int64(i); id > 0 {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return e.usage(event, "<number>"), ErrNoArgument
	}

	purge := DeleteMessages(event.ChatID, ids)
	return []Action{e.track(purge, e.effect(event, event.User.ID, render("purged", "count", strconv.Itoa(len(ids))), "purge messages", nil))}, nil
}

func (e *Engine) onLock(event *Event) ([]Action, error) {
	e.updateSettings(event.ChatID, func(settings *models.GroupSettings) {
		settings.Locked = true
	})

	return []Action{e.reply(event, render("locked"))}, nil
}

func (e *Engine) onUnlock(event *Event) ([]Action, error) {
	e.updateSettings(event.ChatID, func(settings *models.GroupSettings) {
		settings.Locked = false
	})

	return []Action{e.reply(event, render("unlocked"))}, nil
}

func (e *Engine) onSetRules(event *Event) ([]Action, error) {
	if event.Argument == "" {
		return e.usage(event, "<rules>"), ErrNoArgument
	}

	e.updateSettings(event.ChatID, func(settings *models.GroupSettings) {
		settings.Rules = event.Argument
	})

	return []Action{e.reply(event, render("rules_set"))}, nil
}

func (e *Engine) onSetWelcome(event *Event) ([]Action, error) {
	if event.Argument == "" {
		return e.usage(event, "<message>"), ErrNoArgument
	}

	e.updateSettings(event.ChatID, func(settings *models.GroupSettings) {
		settings.Welcome = event.Argument
	})

	return []Action{e.reply(event, render("welcome_set"))}, nil
}

func (e *Engine) onRules(event *Event) ([]Action, error) {
	return []Action{e.reply(event, render("rules", "rules", e.Settings(event.ChatID).Rules))}, nil
}

func (e *Engine) onWarnings(event *Event) ([]Action, error) {
	target, clarify, err := e.resolveTarget(event)
	if err != nil {
		return []Action{*clarify}, err
	}

	count := e.warnings.Query(target)
	if count == 0 {
		return []Action{e.reply(event, render("no_warnings", "user", formatID(target)))}, nil
	}

	return []Action{e.reply(event, render("warnings", "user", formatID(target), "count", strconv.Itoa(count)))}, nil
}

func (e *Engine) onKickMe(event *Event) ([]Action, error) {
	user := event.User.ID

	remove := RemoveMember(event.ChatID, user, true)
	return []Action{e.track(remove, e.effect(event, user, render("kickme"), "kick you", nil))}, nil
}

func (e *Engine) onAfk(event *Event) ([]Action, error) {
	reason := event.Argument
	if reason == "" {
		reason = DEFAULT_AFK_REASON
	}

	e.presence.SetAfk(event.User.ID, reason)

	return []Action{e.reply(event, render("afk_set", "reason", reason))}, nil
}

func (e *Engine) onUnafk(event *Event) ([]Action, error) {
	if !e.presence.ClearAfk(event.User.ID) {
		return nil, nil
	}

	return []Action{e.reply(event, render("afk_cleared"))}, nil
}

func (e *Engine) onFeedback(event *Event) ([]Action, error) {
	return e.forwardToOwner(event, "feedback", "feedback_sent", "send feedback")
}

func (e *Engine) onSuggest(event *Event) ([]Action, error) {
	return e.forwardToOwner(event, "suggestion", "suggestion_sent", "send suggestion")
}

// forwardToOwner sends the event's argument to the owner and confirms to the sender on delivery.
func (e *Engine) forwardToOwner(event *Event, tmpl, sent, verb string) ([]Action, error) {
	if event.Argument == "" {
		return e.usage(event, "<message>"), ErrNoArgument
	}

	forward := NotifyUser(e.config.OwnerID, render(tmpl, "user", formatID(event.User.ID), "text", event.Argument))
	return []Action{e.track(forward, e.effect(event, event.User.ID, render(sent), verb, nil))}, nil
}

func (e *Engine) onTag(event *Event) ([]Action, error) {
	if event.Argument == "" {
		return e.usage(event, "<message>"), ErrNoArgument
	}

	var mentions strings.Builder
	for _, name := range e.directory.All() {
		if mentions.Len() > 0 {
			mentions.WriteByte(' ')
		}
		mentions.WriteString("@" + name)
	}

	chunks := utils.SplitTextIntoChunks(mentions.String(), MSG_LENGTH_MAX)
	last := len(chunks) - 1
	if last >= 0 && len(chunks[last])+1+len(event.Argument) <= MSG_LENGTH_MAX {
		chunks[last] += "\n" + event.Argument
	} else {
		chunks = append(chunks, event.Argument)
	}

	actions := make([]Action, 0, len(chunks))
	for _, chunk := range chunks {
		actions = append(actions, Notify(event.ChatID, chunk))
	}

	return actions, nil
}

func (e *Engine) onBroadcast(event *Event) ([]Action, error) {
	if event.Argument == "" {
		return e.usage(event, "<message>"), ErrNoArgument
	}

	text := render("broadcast", "text", event.Argument)

	var actions []Action
	for user := range e.directory.All() {
		notify := NotifyUser(user, text)
		actions = append(actions, e.track(notify, pendingEffect{target: user, silent: true}))
	}

	return actions, nil
}
