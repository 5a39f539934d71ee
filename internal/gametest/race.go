package gametest

import (
	"fmt"

	"expectimax/game"
	"expectimax/score"
)

const (
	Step = "step" // advance one square
	Roll = "roll" // advance by a die roll
)

// Race is a two-player dice race. Players alternate either stepping one square
// or rolling a die with faces Faces; the first to reach Goal wins.
type Race struct {
	Goal     int
	Faces    []int
	Weights  []float64
	Position [2]int
	player   int
	pending  bool
}

// NewRace returns a race with a fair die when weights is nil.
func NewRace(goal int, faces []int, weights []float64) *Race {
	if weights == nil {
		weights = make([]float64, len(faces))
		for i := range weights {
			weights[i] = 1 / float64(len(faces))
		}
	}
	return &Race{Goal: goal, Faces: faces, Weights: weights}
}

func (r *Race) Copy() game.State {
	c := *r
	return &c
}

func (r *Race) Player() int       { return r.player }
func (r *Race) NumPlayers() int   { return 2 }
func (r *Race) MinScore() float64 { return -1 }
func (r *Race) MaxScore() float64 { return 1 }

func (r *Race) IsGameOver() bool {
	return !r.pending && (r.Position[0] >= r.Goal || r.Position[1] >= r.Goal)
}

func (r *Race) LegalActions() []game.Action {
	if r.pending || r.IsGameOver() {
		return nil
	}
	return []game.Action{Step, Roll}
}

func (r *Race) Reward() score.Tuple {
	for p, pos := range r.Position {
		if pos >= r.Goal {
			return score.ZeroSumOf(2, p, 1)
		}
	}
	return score.New(2)
}

func (r *Race) IsStochastic(action game.Action) bool { return action == Roll }

func (r *Race) Advance(action game.Action) {
	if action != Step || r.pending {
		panic(fmt.Sprintf("cannot advance race with %v", action))
	}
	r.move(1)
}

func (r *Race) AdvanceDeterministic(action game.Action) {
	if action != Roll || r.pending {
		panic(fmt.Sprintf("cannot roll race with %v", action))
	}
	r.pending = true
}

func (r *Race) Outcomes() []game.Outcome {
	if !r.pending {
		return nil
	}
	outcomes := make([]game.Outcome, len(r.Faces))
	for i, f := range r.Faces {
		outcomes[i] = f
	}
	return outcomes
}

func (r *Race) AdvanceNondeterministic(outcome game.Outcome) {
	face, ok := outcome.(int)
	if !ok || !r.pending {
		panic(fmt.Sprintf("cannot resolve race with %v", outcome))
	}
	r.pending = false
	r.move(face)
}

func (r *Race) OutcomeProbability(outcome game.Outcome) float64 {
	for i, f := range r.Faces {
		if f == outcome {
			return r.Weights[i]
		}
	}
	return 0
}

func (r *Race) move(squares int) {
	r.Position[r.player] += squares
	if !r.IsGameOver() {
		r.player = 1 - r.player
	}
}
