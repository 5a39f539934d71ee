package gametest

import (
	"fmt"

	"expectimax/game"
	"expectimax/score"
)

// Take removes Count stones from Pile.
type Take struct {
	Pile, Count int
}

// Nim is two-player normal play Nim: whoever takes the last stone wins.
type Nim struct {
	Piles  []int
	player int
	winner int
}

func NewNim(piles ...int) *Nim {
	p := make([]int, len(piles))
	copy(p, piles)
	return &Nim{Piles: p, winner: -1}
}

func (n *Nim) Copy() game.State {
	c := NewNim(n.Piles...)
	c.player = n.player
	c.winner = n.winner
	return c
}

func (n *Nim) Player() int       { return n.player }
func (n *Nim) NumPlayers() int   { return 2 }
func (n *Nim) MinScore() float64 { return -1 }
func (n *Nim) MaxScore() float64 { return 1 }

func (n *Nim) IsGameOver() bool {
	for _, p := range n.Piles {
		if p > 0 {
			return false
		}
	}
	return true
}

func (n *Nim) LegalActions() []game.Action {
	var actions []game.Action
	for i, p := range n.Piles {
		for c := 1; c <= p; c++ {
			actions = append(actions, Take{Pile: i, Count: c})
		}
	}
	return actions
}

func (n *Nim) Advance(action game.Action) {
	t, ok := action.(Take)
	if !ok || t.Pile < 0 || t.Pile >= len(n.Piles) || t.Count < 1 || t.Count > n.Piles[t.Pile] {
		panic(fmt.Sprintf("illegal nim move %v on %v", action, n.Piles))
	}
	n.Piles[t.Pile] -= t.Count
	if n.IsGameOver() {
		n.winner = n.player
	}
	n.player = 1 - n.player
}

func (n *Nim) Reward() score.Tuple {
	if n.winner < 0 {
		return score.New(2)
	}
	return score.ZeroSumOf(2, n.winner, 1)
}
