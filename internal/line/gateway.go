package line

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// loadingSeconds is how long the loading animation shows unless a
// message arrives first.
const loadingSeconds = 20

type GatewayConfig struct {
	ChannelToken string
	// Endpoint overrides the Messaging API base URL.
	Endpoint   string
	HTTPClient *http.Client
}

// Gateway sends replies as push messages so they are not bound to the
// short-lived reply token.
type Gateway struct {
	bot    *messaging_api.MessagingApiAPI
	logger *slog.Logger
}

func NewGateway(cfg GatewayConfig, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []messaging_api.MessagingApiAPIOption
	if cfg.Endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(cfg.HTTPClient))
	}

	bot, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("line: setup messaging API: %w", err)
	}

	return &Gateway{
		bot:    bot,
		logger: logger.With(slog.String("component", "line")),
	}, nil
}

func (g *Gateway) SendText(ctx context.Context, chatID string, text string) error {
	if _, err := g.bot.PushMessage(
		&messaging_api.PushMessageRequest{
			To: chatID,
			Messages: []messaging_api.MessageInterface{
				messaging_api.TextMessage{
					Text: text,
				},
			},
		}, "",
	); err != nil {
		return fmt.Errorf("line: push message: %w", err)
	}

	g.logger.Debug("sent text reply", slog.String("to", chatID))

	return nil
}

// SendTyping shows the loading animation. LINE only supports it in
// one-on-one chats, so groups and rooms are skipped.
func (g *Gateway) SendTyping(ctx context.Context, chatID string) error {
	if !strings.HasPrefix(chatID, "U") {
		return nil
	}

	if _, err := g.bot.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         chatID,
		LoadingSeconds: loadingSeconds,
	}); err != nil {
		return fmt.Errorf("line: show loading animation: %w", err)
	}

	return nil
}
