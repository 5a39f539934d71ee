// Package agent turns search results into moves.
package agent

import (
	"context"

	"expectimax/game"
	"expectimax/searcher"
)

type Agent interface {
	// FindMove searches from state and picks the move to play.
	FindMove(ctx context.Context, state game.State) (game.Action, error)
}

// Searcher is implemented by *searcher.MCTS and *searcher.Ensemble.
type Searcher interface {
	Search(ctx context.Context, state game.State) (*searcher.Result, error)
}
