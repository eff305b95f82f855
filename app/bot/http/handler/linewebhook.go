package handler

import (
	"log/slog"
	"net/http"

	"github.com/onemouth/chatrelay/internal/line"
	"github.com/onemouth/chatrelay/internal/relay"
)

// LineWebhookHandler forwards verified LINE events to the relay. It must
// sit behind line.RequestSignatureVerifier. Events are queued, so LINE
// gets its 200 before any completion runs.
type LineWebhookHandler struct {
	sink relay.Sink
}

func NewLineWebhookHandler(sink relay.Sink) LineWebhookHandler {
	return LineWebhookHandler{
		sink: sink,
	}
}

func (im LineWebhookHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	slog.Debug("/webhook called...")

	ctx := req.Context()

	cb, ok := line.CallbackRequestFrom(ctx)
	if !ok {
		slog.Error("Cannot find cb in context")

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	slog.Debug("Handling events...", slog.Int("count", len(cb.Events)))
	for _, event := range cb.Events {
		ev, ok := line.EventFromWebhook(event)
		if !ok {
			slog.Debug("Unsupported event", slog.String("event_type", event.GetType()))
			continue
		}

		im.sink.Submit(ctx, ev)
	}

	w.WriteHeader(http.StatusOK)
}
