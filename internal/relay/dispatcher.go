package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/onemouth/chatrelay/internal/conversation"
	"github.com/onemouth/chatrelay/internal/observability"
	"github.com/onemouth/chatrelay/internal/openai"
)

// Generation parameters are fixed; users cannot change them.
const (
	MaxReplyTokens = 500
	Temperature    = 0.8
)

// Gateway is the outbound half of a chat transport.
type Gateway interface {
	SendText(ctx context.Context, chatID string, text string) error
	SendTyping(ctx context.Context, chatID string) error
}

type Completer interface {
	Complete(ctx context.Context, req openai.Request) openai.Result
}

type Dispatcher struct {
	history   conversation.ChatHistory
	assembler conversation.PromptAssembler
	completer Completer
	gateway   Gateway
	texts     Texts
	metrics   *observability.Metrics
	logger    *slog.Logger
	serial    *serialExecutor
}

type Option func(*Dispatcher)

func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func NewDispatcher(
	history conversation.ChatHistory, completer Completer, gateway Gateway, texts Texts, opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		history:   history,
		assembler: conversation.NewPromptAssembler(texts.Persona, history),
		completer: completer,
		gateway:   gateway,
		texts:     texts,
		logger:    slog.Default(),
		serial:    newSerialExecutor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(slog.String("component", "dispatcher"))

	return d
}

// Submit queues ev behind any pending events of the same user and returns
// immediately. Handling is detached from ctx cancellation; errors are
// logged, never returned to the sender.
func (d *Dispatcher) Submit(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ctx = context.WithoutCancel(ctx)

	d.serial.Go(ev.UserID, func() {
		d.dispatch(ctx, ev)
	})
}

// Wait blocks until every submitted event has been handled.
func (d *Dispatcher) Wait() {
	d.serial.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, ev Event) {
	logger := d.logger.With(
		slog.String("event_id", ev.ID),
		slog.String("kind", string(ev.Kind)),
		slog.String("user_id", ev.UserID),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked", slog.Any("panic", r))
		}
	}()

	if err := d.Handle(ctx, ev); err != nil {
		logger.Error("failed to handle event", slog.Any("err", err))
	}
}

// Handle processes one event synchronously. Completion failures are
// answered to the user and do not produce an error.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	if d.metrics != nil {
		d.metrics.Events.WithLabelValues(string(ev.Kind)).Inc()
	}

	switch ev.Kind {
	case EventStart:
		return d.resetAndReply(ctx, ev, d.texts.Greeting)
	case EventClear:
		return d.resetAndReply(ctx, ev, d.texts.Cleared)
	case EventHelp:
		return d.send(ctx, ev.ChatID, d.texts.Help)
	case EventText:
		return d.handleText(ctx, ev)
	default:
		return fmt.Errorf("unsupported event kind %q", ev.Kind)
	}
}

func (d *Dispatcher) resetAndReply(ctx context.Context, ev Event, text string) error {
	if err := d.history.Reset(ctx, ev.UserID); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}

	return d.send(ctx, ev.ChatID, text)
}

func (d *Dispatcher) handleText(ctx context.Context, ev Event) error {
	if err := d.gateway.SendTyping(ctx, ev.ChatID); err != nil {
		d.countSendFailure("typing")
		d.logger.Warn("failed to send typing indicator", slog.String("event_id", ev.ID), slog.Any("err", err))
	}

	if err := d.history.Append(ctx, ev.UserID, conversation.UserTurn(ev.Text)); err != nil {
		return fmt.Errorf("append user turn: %w", err)
	}

	prompt, err := d.assembler.Build(ctx, ev.UserID)
	if err != nil {
		return err
	}

	start := time.Now()
	res := d.completer.Complete(ctx, openai.Request{
		Model:       openai.DefaultModel,
		Messages:    prompt,
		MaxTokens:   MaxReplyTokens,
		Temperature: Temperature,
	})
	if d.metrics != nil {
		d.metrics.ObserveCompletion(res.Kind.String(), time.Since(start))
	}

	switch res.Kind {
	case openai.ResultOK:
		if err := d.history.Append(ctx, ev.UserID, conversation.AssistantTurn(res.Text)); err != nil {
			return fmt.Errorf("append assistant turn: %w", err)
		}

		return d.send(ctx, ev.ChatID, res.Text)
	case openai.ResultRateLimited:
		d.logger.Warn("completion rate limited", slog.String("event_id", ev.ID), slog.Any("err", res.Err))

		return d.send(ctx, ev.ChatID, d.texts.RateLimited)
	case openai.ResultInvalidRequest:
		d.logger.Warn("completion request rejected", slog.String("event_id", ev.ID), slog.Any("err", res.Err))

		return d.send(ctx, ev.ChatID, d.texts.invalidRequest(res.Reason))
	default:
		d.logger.Error("completion failed", slog.String("event_id", ev.ID), slog.Any("err", res.Err))

		return d.send(ctx, ev.ChatID, d.texts.failure(res.Err))
	}
}

func (d *Dispatcher) send(ctx context.Context, chatID, text string) error {
	if err := d.gateway.SendText(ctx, chatID, text); err != nil {
		d.countSendFailure("text")

		return fmt.Errorf("send text to %s: %w", chatID, err)
	}

	return nil
}

func (d *Dispatcher) countSendFailure(op string) {
	if d.metrics != nil {
		d.metrics.SendFailures.WithLabelValues(op).Inc()
	}
}
