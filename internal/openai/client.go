package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/onemouth/chatrelay/internal/conversation"
)

const DefaultModel = goopenai.GPT3Dot5Turbo

type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint, e.g. "https://api.openai.com/v1".
	BaseURL string
	Timeout time.Duration
}

type Request struct {
	Model       string
	Messages    []conversation.Turn
	MaxTokens   int
	Temperature float32
}

// Client calls the chat completions endpoint once per request. It never
// retries; throttling is surfaced as ResultRateLimited.
type Client struct {
	client *goopenai.Client
}

func NewClient(cfg Config) *Client {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	c.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client: goopenai.NewClientWithConfig(c),
	}
}

func (c *Client) Complete(ctx context.Context, req Request) Result {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, turn := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return classify(err)
	}

	if len(resp.Choices) == 0 {
		return Failed(errors.New("completion response has no choices"))
	}

	return OK(resp.Choices[0].Message.Content)
}

func classify(err error) Result {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return RateLimited(err)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return InvalidRequest(apiErr.Message, err)
		}

		return Failed(err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return RateLimited(err)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return InvalidRequest(fmt.Sprint(reqErr.Err), err)
		}
	}

	return Failed(err)
}
