package agent

import (
	"context"
	"fmt"

	"expectimax/game"
)

type evaluationAgent struct {
	searcher Searcher
}

// NewEvaluationAgent returns an agent for actual game play during evaluation.
// It plays the recommended action.
func NewEvaluationAgent(s Searcher) Agent {
	return evaluationAgent{searcher: s}
}

func (a evaluationAgent) FindMove(ctx context.Context, state game.State) (game.Action, error) {
	result, err := a.searcher.Search(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("find move: %w", err)
	}
	return result.Action, nil
}
