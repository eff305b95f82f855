// Package telegram connects the relay to the Telegram Bot API using long
// polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/onemouth/chatrelay/internal/relay"
)

type Config struct {
	Token string
	// PollTimeout is the getUpdates long-polling timeout in seconds.
	PollTimeout int
	// Endpoint overrides tgbotapi.APIEndpoint. It must contain two %s
	// verbs: the token and the method.
	Endpoint   string
	HTTPClient *http.Client
}

// Gateway receives updates and sends replies through one bot account.
type Gateway struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
	logger      *slog.Logger
}

// New verifies the token with getMe before returning.
func New(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "telegram"))

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	if err := tgbotapi.SetLogger(botLogger{logger: logger}); err != nil {
		return nil, fmt.Errorf("telegram: set logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: verify token: %w", err)
	}
	logger.Info("connected", slog.String("bot", api.Self.UserName), slog.Int64("id", api.Self.ID))

	return &Gateway{
		api:         api,
		pollTimeout: cfg.PollTimeout,
		logger:      logger,
	}, nil
}

// Run polls for updates and submits the supported ones to sink until ctx
// is done.
func (g *Gateway) Run(ctx context.Context, sink relay.Sink) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = g.pollTimeout

	updates := g.api.GetUpdatesChan(u)
	defer g.api.StopReceivingUpdates()

	g.logger.Info("polling for updates")
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			ev, ok := EventFromUpdate(update)
			if !ok {
				g.logger.Debug("ignoring update", slog.Int("update_id", update.UpdateID))
				continue
			}
			sink.Submit(ctx, ev)
		}
	}
}

func (g *Gateway) SendText(ctx context.Context, chatID string, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ID %q: %w", chatID, err)
	}

	if _, err := g.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("telegram: sendMessage: %w", err)
	}

	return nil
}

func (g *Gateway) SendTyping(ctx context.Context, chatID string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ID %q: %w", chatID, err)
	}

	if _, err := g.api.Request(tgbotapi.NewChatAction(id, tgbotapi.ChatTyping)); err != nil {
		return fmt.Errorf("telegram: sendChatAction: %w", err)
	}

	return nil
}

// EventFromUpdate maps an update to a relay event. Only text messages
// from a user are accepted; unknown commands are dropped.
func EventFromUpdate(update tgbotapi.Update) (relay.Event, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return relay.Event{}, false
	}

	ev := relay.Event{
		ID:     strconv.Itoa(update.UpdateID),
		UserID: strconv.FormatInt(msg.From.ID, 10),
		ChatID: strconv.FormatInt(msg.Chat.ID, 10),
	}

	if msg.IsCommand() {
		kind, ok := relay.CommandKind(msg.Command())
		if !ok {
			return relay.Event{}, false
		}
		ev.Kind = kind

		return ev, true
	}

	ev.Kind = relay.EventText
	ev.Text = msg.Text

	return ev, true
}

// botLogger routes the library's retry chatter into slog.
type botLogger struct {
	logger *slog.Logger
}

func (l botLogger) Println(v ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l botLogger) Printf(format string, v ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
