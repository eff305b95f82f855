package conversation_test

import (
	"context"
	"testing"

	"github.com/onemouth/chatrelay/internal/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptAssemblerBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := conversation.NewChatHistoryMemImpl(conversation.DefaultWindowSize)
	assembler := conversation.NewPromptAssembler("persona", history)

	t.Run("fresh user gets only the persona", func(t *testing.T) {
		ret, err := assembler.Build(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, []conversation.Turn{conversation.SystemTurn("persona")}, ret)
	})

	t.Run("persona precedes the stored window", func(t *testing.T) {
		stored := []conversation.Turn{
			conversation.UserTurn("1"),
			conversation.AssistantTurn("2"),
			conversation.UserTurn("3"),
			conversation.AssistantTurn("4"),
			conversation.UserTurn("5"),
		}
		require.NoError(t, history.Append(ctx, "u", stored...))

		ret, err := assembler.Build(ctx, "u")
		require.NoError(t, err)
		require.Len(t, ret, 1+conversation.DefaultWindowSize)
		assert.Equal(t, conversation.SystemTurn("persona"), ret[0])
		assert.Equal(t, stored[1:], ret[1:])
	})

	t.Run("persona is not stored", func(t *testing.T) {
		ret, err := history.Get(ctx, "u")
		require.NoError(t, err)
		for _, turn := range ret {
			assert.NotEqual(t, conversation.RoleSystem, turn.Role)
		}
	})
}
