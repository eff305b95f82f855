package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/onemouth/chatrelay/app/bot/http/handler"
	"github.com/onemouth/chatrelay/internal/config"
	"github.com/onemouth/chatrelay/internal/conversation"
	"github.com/onemouth/chatrelay/internal/line"
	"github.com/onemouth/chatrelay/internal/observability"
	"github.com/onemouth/chatrelay/internal/openai"
	"github.com/onemouth/chatrelay/internal/relay"
	"github.com/onemouth/chatrelay/internal/telegram"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the relay",
		Long: `Start the relay on the selected chat platform. Telegram is polled;
LINE delivers events to POST /webhook on HTTP_ADDR.

Examples:
  chatrelay serve
  chatrelay serve --platform line`,
		RunE: runServe,
	}

	cmd.Flags().String("platform", "", "chat platform (telegram, line); overrides CHAT_PLATFORM")
	cmd.Flags().StringSlice("env-file", []string{".env", ".env.local"}, "env files to load; real environment wins")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	// ── Load config ──
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return err
	}

	platform, _ := cmd.Flags().GetString("platform")
	cfg, err := config.Load(platform)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ── Configure logger ──
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	texts, err := relay.LoadTexts(cfg.TextsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, texts, logger)
}

func serve(ctx context.Context, cfg config.Config, texts relay.Texts, logger *slog.Logger) error {
	logger.Info("chatrelay starting", slog.String("platform", cfg.Platform))

	history := conversation.NewChatHistoryMemImpl(conversation.DefaultWindowSize)

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer, cfg.MetricsNamespace)
	metrics.TrackConversations(history.Len)

	completer := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
	})

	// ── Chat gateway ──
	var (
		gateway relay.Gateway
		poller  *telegram.Gateway
		secret  string
	)
	switch cfg.Platform {
	case config.PlatformTelegram:
		tg, err := telegram.New(telegram.Config{
			Token:       cfg.TelegramToken,
			PollTimeout: cfg.TelegramPollTimeout,
		}, logger)
		if err != nil {
			return err
		}
		gateway, poller = tg, tg
	case config.PlatformLine:
		lg, err := line.NewGateway(line.GatewayConfig{ChannelToken: cfg.LineChannelToken}, logger)
		if err != nil {
			return err
		}
		gateway, secret = lg, cfg.LineChannelSecret
	default:
		return fmt.Errorf("unsupported platform %q", cfg.Platform)
	}

	dispatcher := relay.NewDispatcher(history, completer, gateway, texts,
		relay.WithMetrics(metrics),
		relay.WithLogger(logger),
	)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: handler.NewRouter(handler.RouterConfig{
			Platform:          cfg.Platform,
			Logger:            logger,
			Gatherer:          prometheus.DefaultGatherer,
			Conversations:     history.Len,
			LineChannelSecret: secret,
			Sink:              dispatcher,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if poller != nil {
		g.Go(func() error {
			return poller.Run(gctx, dispatcher)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("chatrelay started, press Ctrl+C to stop")

	err := g.Wait()

	logger.Info("waiting for in-flight events")
	dispatcher.Wait()
	logger.Info("chatrelay stopped")

	return err
}
