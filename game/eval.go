package game

import (
	"fmt"
	"math"

	"expectimax/score"
)

// Evaluator estimates the value of a state for every player together with a
// probability for each of state.LegalActions(), in order. A nil policy means
// no preference.
type Evaluator interface {
	Predict(state State) (value score.Tuple, policy []float64, err error)
}

// Evaluate estimates the state on the game's score scale from the perspective
// of the player to act.
type Evaluate func(State) float64

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(State) (score.Tuple, []float64, error)

func (f EvaluatorFunc) Predict(state State) (score.Tuple, []float64, error) {
	return f(state)
}

// FromEstimate turns a scalar estimate for the player to act into an
// Evaluator. Opponents receive the zero-sum complement, and the estimate is
// clamped to the declared score bounds.
func FromEstimate(evaluate Evaluate) Evaluator {
	return EvaluatorFunc(func(state State) (score.Tuple, []float64, error) {
		v := evaluate(state)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("estimate is not finite: %v", v)
		}
		v = math.Max(state.MinScore(), math.Min(state.MaxScore(), v))
		return score.ZeroSumOf(state.NumPlayers(), state.Player(), v), nil, nil
	})
}

// EvaluateReward scores a finished game by its reward and anything else as a
// draw. It is the estimate used when no evaluator is supplied.
func EvaluateReward(state State) float64 {
	if state.IsGameOver() {
		return state.Reward()[state.Player()]
	}
	return (state.MinScore() + state.MaxScore()) / 2
}
