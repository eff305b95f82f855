package relay_test

import (
	"context"
	"errors"
	"sync"

	"github.com/onemouth/chatrelay/internal/openai"
)

type sentMessage struct {
	ChatID string
	Text   string
}

type fakeGateway struct {
	mu        sync.Mutex
	sent      []sentMessage
	typing    []string
	typingErr error
	sendErr   error
}

func (g *fakeGateway) SendText(ctx context.Context, chatID string, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMessage{ChatID: chatID, Text: text})

	return nil
}

func (g *fakeGateway) SendTyping(ctx context.Context, chatID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.typing = append(g.typing, chatID)

	return g.typingErr
}

func (g *fakeGateway) Sent() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]sentMessage(nil), g.sent...)
}

// fakeCompleter records every request and answers with respond, or echoes
// the last message when respond is nil.
type fakeCompleter struct {
	mu       sync.Mutex
	requests []openai.Request
	respond  func(req openai.Request) openai.Result
}

func (c *fakeCompleter) Complete(ctx context.Context, req openai.Request) openai.Result {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	respond := c.respond
	c.mu.Unlock()

	if respond != nil {
		return respond(req)
	}

	return openai.OK("re: " + req.Messages[len(req.Messages)-1].Content)
}

func (c *fakeCompleter) Requests() []openai.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]openai.Request(nil), c.requests...)
}

var errBoom = errors.New("boom")
