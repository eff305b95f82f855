package conversation

import (
	"context"
)

// DefaultWindowSize keeps the last two user/assistant pairs.
const DefaultWindowSize = 4

type ChatHistory interface {
	Get(ctx context.Context, userID string) ([]Turn, error)
	Reset(ctx context.Context, userID string) error
	Append(ctx context.Context, userID string, turns ...Turn) error
}
