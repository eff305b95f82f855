package line

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/onemouth/chatrelay/internal/relay"
)

// EventFromWebhook maps a webhook event to a relay event. Text messages
// become commands or free text, a follow event starts a fresh
// conversation, everything else is dropped.
func EventFromWebhook(event webhook.EventInterface) (relay.Event, bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		message, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return relay.Event{}, false
		}

		kind, ok := relay.ParseText(message.Text)
		if !ok {
			return relay.Event{}, false
		}

		ev, ok := eventFromSource(e.WebhookEventId, e.Source)
		if !ok {
			return relay.Event{}, false
		}
		ev.Kind = kind
		if kind == relay.EventText {
			ev.Text = message.Text
		}

		return ev, true
	case webhook.FollowEvent:
		ev, ok := eventFromSource(e.WebhookEventId, e.Source)
		if !ok {
			return relay.Event{}, false
		}
		ev.Kind = relay.EventStart

		return ev, true
	default:
		return relay.Event{}, false
	}
}

// eventFromSource keeps history per user; group and room replies go to
// the group or room.
func eventFromSource(id string, source webhook.SourceInterface) (relay.Event, bool) {
	var userID, chatID string

	switch s := source.(type) {
	case webhook.UserSource:
		userID, chatID = s.UserId, s.UserId
	case webhook.GroupSource:
		userID, chatID = s.UserId, s.GroupId
	case webhook.RoomSource:
		userID, chatID = s.UserId, s.RoomId
	}

	if userID == "" || chatID == "" {
		return relay.Event{}, false
	}

	return relay.Event{ID: id, UserID: userID, ChatID: chatID}, true
}
