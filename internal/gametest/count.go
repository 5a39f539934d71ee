package gametest

import (
	"expectimax/game"
	"expectimax/score"
)

// Count is a three-player game: players in turn add 1 or 2 to a running total
// and whoever brings it to Limit or beyond loses. The loser scores -1, the
// other two 0.5 each.
type Count struct {
	Limit  int
	Total  int
	player int
	loser  int
}

func NewCount(limit int) *Count {
	return &Count{Limit: limit, loser: -1}
}

func (c *Count) Copy() game.State {
	d := *c
	return &d
}

func (c *Count) Player() int       { return c.player }
func (c *Count) NumPlayers() int   { return 3 }
func (c *Count) MinScore() float64 { return -1 }
func (c *Count) MaxScore() float64 { return 1 }
func (c *Count) IsGameOver() bool  { return c.loser >= 0 }

func (c *Count) LegalActions() []game.Action {
	if c.IsGameOver() {
		return nil
	}
	return []game.Action{1, 2}
}

func (c *Count) Advance(action game.Action) {
	c.Total += action.(int)
	if c.Total >= c.Limit {
		c.loser = c.player
		return
	}
	c.player = (c.player + 1) % 3
}

func (c *Count) Reward() score.Tuple {
	if c.loser < 0 {
		return score.New(3)
	}
	return score.ZeroSumOf(3, c.loser, -1)
}
