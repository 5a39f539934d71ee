package searcher

import (
	"fmt"
	"math"

	"expectimax/game"
	"expectimax/metrics"
	"expectimax/score"
	"expectimax/utils"
)

// ChildStats describes one root action after a search.
type ChildStats struct {
	Action   game.Action
	Visits   int
	Mean     float64     // for the player to act at the root, NaN if unexplored
	Total    score.Tuple // summed values, all players
	Explored bool
}

// Result is a read-only report of a finished search.
type Result struct {
	RunID  string
	Player int
	// Action is the recommended move, nil when no root child was visited.
	Action game.Action
	// Actions, Values, Probabilities and Stats are aligned with the root's legal
	// actions. Values holds NaN for actions that were never explored.
	Actions       []game.Action
	Values        []float64
	Probabilities []float64
	Stats         []ChildStats
	Iterations    int
	Metrics       metrics.SearchMetric
}

// Value returns the mean value of action for the root player.
func (r *Result) Value(action game.Action) (float64, error) {
	i := utils.FindIndex(r.Actions, action)
	if i < 0 {
		return math.NaN(), fmt.Errorf("%w: %v", ErrIllegalAction, action)
	}
	return r.Values[i], nil
}

// Visits returns the visit count of every root action.
func (r *Result) Visits() []int {
	visits := make([]int, len(r.Stats))
	for i, s := range r.Stats {
		visits[i] = s.Visits
	}
	return visits
}

func newResult(root *decision) *Result {
	r := &Result{
		Player:  root.player,
		Actions: root.actions,
		Stats:   make([]ChildStats, len(root.actions)),
	}
	for i, action := range root.actions {
		s := ChildStats{Action: action, Mean: math.NaN(), Total: score.New(len(root.total))}
		if child := root.children[action]; child != nil {
			s.Explored = true
			s.Visits = child.Visits()
			s.Total = childTotal(child)
		}
		r.Stats[i] = s
	}
	return r
}

func childTotal(n Node) score.Tuple {
	switch n := n.(type) {
	case *decision:
		return n.total.Clone()
	case *chance:
		return n.total.Clone()
	default:
		panic("unexpected node type")
	}
}

// summarize derives the value table, recommendation and probabilities from
// Stats. Ties between equal means go to the earliest action.
func (r *Result) summarize(normalizer Normalizer) error {
	r.Values = make([]float64, len(r.Stats))
	r.Action = nil
	found := false
	best := math.Inf(-1)
	for i := range r.Stats {
		s := &r.Stats[i]
		s.Mean = math.NaN()
		if s.Visits > 0 {
			s.Mean = s.Total[r.Player] / float64(s.Visits)
		}
		r.Values[i] = s.Mean
		if s.Visits > 0 && (!found || s.Mean > best) {
			r.Action, best, found = s.Action, s.Mean, true
		}
	}

	if !found {
		r.Probabilities = make([]float64, len(r.Values))
		return nil
	}
	probabilities, err := normalizer.Normalize(r.Values)
	if err != nil {
		return err
	}
	r.Probabilities = probabilities
	return nil
}
