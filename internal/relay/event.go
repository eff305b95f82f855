package relay

import (
	"context"
	"strings"
)

type EventKind string

const (
	EventStart EventKind = "start"
	EventClear EventKind = "clear"
	EventHelp  EventKind = "help"
	EventText  EventKind = "text"
)

// Event is an inbound chat event normalised across transports. UserID
// keys the conversation window, ChatID is where replies go.
type Event struct {
	ID     string
	Kind   EventKind
	UserID string
	ChatID string
	Text   string
}

// CommandKind maps a bare command name ("start", "clear", "help") to its
// event kind.
func CommandKind(command string) (EventKind, bool) {
	switch strings.ToLower(command) {
	case "start":
		return EventStart, true
	case "clear":
		return EventClear, true
	case "help":
		return EventHelp, true
	default:
		return "", false
	}
}

// ParseText classifies a plain text message. Text starting with "/" is a
// command; the command name ends at the first space or "@". ok is false
// for unknown commands, which are dropped like on Telegram.
func ParseText(text string) (kind EventKind, ok bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return EventText, trimmed != ""
	}

	name := strings.TrimPrefix(trimmed, "/")
	if i := strings.IndexAny(name, " @"); i >= 0 {
		name = name[:i]
	}

	return CommandKind(name)
}

// Sink accepts inbound events from a transport.
type Sink interface {
	Submit(ctx context.Context, ev Event)
}
