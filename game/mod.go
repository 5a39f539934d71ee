package game

import "expectimax/score"

// Action is a move chosen by the player to act. Values must be comparable:
// the search keys children by action.
type Action any

// Outcome is the realized result of a chance step (a die roll, a card draw).
// Values must be comparable.
type Outcome any

// State is a game position consumed by the search. The search never advances a
// state it did not copy first, so implementations may mutate in place.
type State interface {
	Copy() State
	// Player returns the index of the player to act.
	Player() int
	NumPlayers() int
	LegalActions() []Action
	IsGameOver() bool
	// Reward returns the terminal utility of every player, within
	// [MinScore, MaxScore].
	Reward() score.Tuple
	MinScore() float64
	MaxScore() float64
	// Advance applies a deterministic action.
	Advance(Action)
}

// Stochastic is implemented by games where some actions are followed by a
// chance step. Playing such an action is split in two: AdvanceDeterministic
// applies the part the player controls and leaves the state waiting on one of
// Outcomes, AdvanceNondeterministic resolves it.
type Stochastic interface {
	State
	IsStochastic(Action) bool
	AdvanceDeterministic(Action)
	Outcomes() []Outcome
	AdvanceNondeterministic(Outcome)
}

// Weighted exposes the true probability of each pending outcome.
type Weighted interface {
	OutcomeProbability(Outcome) float64
}

// Bounder is implemented by states that can compute an external bound on the
// value for the player to act, e.g. from an endgame solver.
type Bounder interface {
	Bound() (score.Tuple, bool)
}

// IsStochastic reports whether playing action in state is followed by a chance
// step.
func IsStochastic(state State, action Action) bool {
	s, ok := state.(Stochastic)
	return ok && s.IsStochastic(action)
}
