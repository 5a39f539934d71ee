package searcher

import (
	"fmt"

	"golang.org/x/exp/rand"

	"expectimax/game"
	"expectimax/score"
)

// chance sits between a stochastic action and its outcomes. Its state is the
// position after the player's part of the action, waiting on an outcome.
type chance struct {
	stats
	parent   *decision
	state    game.Stochastic
	outcomes []game.Outcome
	untried  []game.Outcome
	explored []game.Outcome
	children map[game.Outcome]*decision
}

func newChance(parent *decision, state game.Stochastic) (*chance, error) {
	outcomes := distinct(state.Outcomes())
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%w: chance step with no outcomes", ErrBookkeeping)
	}

	untried := make([]game.Outcome, len(outcomes))
	copy(untried, outcomes)

	return &chance{
		stats:    newStats(state.NumPlayers()),
		parent:   parent,
		state:    state,
		outcomes: outcomes,
		untried:  untried,
		explored: make([]game.Outcome, 0, len(outcomes)),
		children: make(map[game.Outcome]*decision, len(outcomes)),
	}, nil
}

func (c *chance) IsFullyExpanded() bool {
	return len(c.explored) == len(c.outcomes)
}

// Expand realizes one outcome not seen yet, picked uniformly at random.
func (c *chance) Expand(rng *rand.Rand) (game.Outcome, *decision, error) {
	if len(c.untried) == 0 {
		return nil, nil, fmt.Errorf("%w: no outcome left to explore at %d of %d realized", ErrBookkeeping, len(c.explored), len(c.outcomes))
	}

	i := rng.Intn(len(c.untried))
	outcome := c.untried[i]
	child, err := c.realize(outcome)
	if err != nil {
		return nil, nil, err
	}
	c.untried = append(c.untried[:i], c.untried[i+1:]...)
	return outcome, child, nil
}

// realize returns the child for outcome, creating it on first sight.
func (c *chance) realize(outcome game.Outcome) (*decision, error) {
	if child, ok := c.children[outcome]; ok {
		return child, nil
	}

	state := c.state.Copy().(game.Stochastic)
	state.AdvanceNondeterministic(outcome)
	child, err := newDecision(c, state)
	if err != nil {
		return nil, err
	}

	c.children[outcome] = child
	c.explored = append(c.explored, outcome)
	return child, nil
}

// Sample replays one of the realized outcomes once every outcome has a child.
func (c *chance) Sample(rng *rand.Rand, sampling Sampling) (game.Outcome, *decision, error) {
	if !c.IsFullyExpanded() {
		return nil, nil, fmt.Errorf("%w: sampling with %d of %d outcomes realized", ErrBookkeeping, len(c.explored), len(c.outcomes))
	}

	outcome, err := drawOutcome(rng, c.state, c.explored, sampling)
	if err != nil {
		return nil, nil, err
	}
	return outcome, c.children[outcome], nil
}

func (c *chance) Update(t score.Tuple) Node {
	c.record(t)
	return c.parent
}

func distinct(outcomes []game.Outcome) []game.Outcome {
	seen := make(map[game.Outcome]struct{}, len(outcomes))
	unique := make([]game.Outcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if _, ok := seen[outcome]; !ok {
			seen[outcome] = struct{}{}
			unique = append(unique, outcome)
		}
	}
	return unique
}

// drawOutcome picks one of outcomes, uniformly or by the probabilities state
// reports when it implements game.Weighted.
func drawOutcome(rng *rand.Rand, state game.State, outcomes []game.Outcome, sampling Sampling) (game.Outcome, error) {
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%w: chance step with no outcomes", ErrBookkeeping)
	}
	if sampling != Weighted {
		return outcomes[rng.Intn(len(outcomes))], nil
	}

	weighted, ok := state.(game.Weighted)
	if !ok {
		return nil, fmt.Errorf("%w: weighted chance sampling needs outcome probabilities", ErrConfig)
	}

	weights := make([]float64, len(outcomes))
	sum := 0.0
	for i, outcome := range outcomes {
		if p := weighted.OutcomeProbability(outcome); p > 0 {
			weights[i] = p
			sum += p
		}
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: outcomes have no probability mass", ErrBookkeeping)
	}

	r := rng.Float64() * sum
	for i, w := range weights {
		if r < w {
			return outcomes[i], nil
		}
		r -= w
	}
	return outcomes[len(outcomes)-1], nil
}
