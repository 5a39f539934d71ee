package searcher

import (
	"math"

	"expectimax/score"
)

// Node is a vertex of the search tree: a *decision or a *chance.
type Node interface {
	// Update records one visit worth t and returns the parent, nil at the root.
	Update(t score.Tuple) Node
	Visits() int
	// Mean returns the average value for player, NaN before the first visit.
	Mean(player int) float64
}

type stats struct {
	visits int
	total  score.Tuple
}

func newStats(players int) stats {
	return stats{total: score.New(players)}
}

func (s *stats) record(t score.Tuple) {
	s.visits++
	s.total.Add(t)
}

func (s *stats) Visits() int {
	return s.visits
}

func (s *stats) Mean(player int) float64 {
	if s.visits == 0 {
		return math.NaN()
	}
	return s.total[player] / float64(s.visits)
}

func backup(leaf Node, t score.Tuple) {
	for node := leaf; node != nil; {
		node = node.Update(t)
	}
}
