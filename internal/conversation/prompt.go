package conversation

import (
	"context"
	"fmt"
)

// PromptAssembler prepends the persona to a user's stored window. The
// persona is never written to the history itself.
type PromptAssembler struct {
	Persona string
	History ChatHistory
}

func NewPromptAssembler(persona string, history ChatHistory) PromptAssembler {
	return PromptAssembler{
		Persona: persona,
		History: history,
	}
}

func (a PromptAssembler) Build(ctx context.Context, userID string) ([]Turn, error) {
	stored, err := a.History.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", userID, err)
	}

	ret := make([]Turn, 0, 1+len(stored))
	ret = append(ret, SystemTurn(a.Persona))
	ret = append(ret, stored...)

	return ret, nil
}
