package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	relayhttp "github.com/onemouth/chatrelay/internal/http"
	"github.com/onemouth/chatrelay/internal/line"
	"github.com/onemouth/chatrelay/internal/observability"
	"github.com/onemouth/chatrelay/internal/relay"
)

type RouterConfig struct {
	Platform string
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	// Conversations reports the number of stored conversations.
	Conversations func() int

	// The LINE webhook is mounted only when LineChannelSecret is set.
	LineChannelSecret string
	Sink              relay.Sink
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(relayhttp.NewRequestLogger(cfg.Logger).Decorate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		conversations := 0
		if cfg.Conversations != nil {
			conversations = cfg.Conversations()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":        "ok",
			"platform":      cfg.Platform,
			"conversations": conversations,
		})
	})
	r.Handle("/metrics", observability.MetricsHandler(cfg.Gatherer))

	if cfg.LineChannelSecret != "" {
		r.Method(http.MethodPost, "/webhook", relayhttp.Chain(
			[]relayhttp.Middleware{line.NewRequestSignatureVerifier(cfg.LineChannelSecret)},
			NewLineWebhookHandler(cfg.Sink),
		))
	}

	return r
}
