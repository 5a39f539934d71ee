package searcher

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"expectimax/game"
	"expectimax/score"
)

type decision struct {
	stats
	parent   Node
	state    game.State
	player   int
	actions  []game.Action // legal at creation, in the game's order
	untried  []game.Action
	explored []game.Action
	children map[game.Action]Node
	priors   map[game.Action]float64
	terminal bool
	reward   score.Tuple
}

// newDecision takes ownership of state.
func newDecision(parent Node, state game.State) (*decision, error) {
	d := &decision{
		stats:  newStats(state.NumPlayers()),
		parent: parent,
		state:  state,
		player: state.Player(),
	}

	if state.IsGameOver() {
		d.terminal = true
		d.reward = state.Reward()
		if len(d.reward) != state.NumPlayers() {
			return nil, fmt.Errorf("%w: reward %v for %d players", ErrEvaluation, d.reward, state.NumPlayers())
		}
		return d, nil
	}

	actions := state.LegalActions()
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: player %d to act", ErrNoActions, d.player)
	}

	d.actions = actions
	d.untried = make([]game.Action, len(actions))
	copy(d.untried, actions)
	d.explored = make([]game.Action, 0, len(actions))
	d.children = make(map[game.Action]Node, len(actions))
	for _, action := range actions {
		if _, ok := d.children[action]; ok {
			return nil, fmt.Errorf("%w: duplicate legal action %v", ErrConfig, action)
		}
		d.children[action] = nil
	}
	clear(d.children)

	return d, nil
}

func (d *decision) IsTerminal() bool {
	return d.terminal
}

func (d *decision) IsFullyExpanded() bool {
	return len(d.untried) == 0
}

// Expand plays one untried action, picked uniformly at random, on a copy of
// the node's state and attaches the resulting child.
func (d *decision) Expand(rng *rand.Rand) (game.Action, Node, error) {
	if d.terminal {
		return nil, nil, ErrTerminal
	}
	if len(d.untried) == 0 {
		return nil, nil, fmt.Errorf("%w: no untried action to expand", ErrBookkeeping)
	}

	i := rng.Intn(len(d.untried))
	action := d.untried[i]

	state := d.state.Copy()
	var child Node
	if game.IsStochastic(state, action) {
		stochastic := state.(game.Stochastic)
		stochastic.AdvanceDeterministic(action)
		c, err := newChance(d, stochastic)
		if err != nil {
			return nil, nil, err
		}
		child = c
	} else {
		state.Advance(action)
		c, err := newDecision(d, state)
		if err != nil {
			return nil, nil, err
		}
		child = c
	}

	d.untried = append(d.untried[:i], d.untried[i+1:]...)
	d.children[action] = child
	d.explored = append(d.explored, action)
	return action, child, nil
}

// Select picks the explored child maximizing the tree policy for the player to
// act. A child that was never visited is returned first.
func (d *decision) Select(c float64, selection Selection) (game.Action, Node) {
	if len(d.explored) == 0 {
		panic("node has no explored children")
	}

	for _, action := range d.explored {
		if child := d.children[action]; child.Visits() == 0 {
			return action, child
		}
	}

	var value func(action game.Action, child Node) float64
	switch selection {
	case PUCT:
		policy := newPUCT(c, d.visits)
		value = func(action game.Action, child Node) float64 {
			n := child.Visits()
			return policy.evaluate(child.Mean(d.player)*float64(n), n, d.prior(action))
		}
	default:
		policy := newUCT(c, d.visits)
		value = func(_ game.Action, child Node) float64 {
			n := child.Visits()
			return policy.evaluate(child.Mean(d.player)*float64(n), n)
		}
	}

	best := d.explored[0]
	maxScore := math.Inf(-1)
	for _, action := range d.explored {
		if s := value(action, d.children[action]); s > maxScore {
			maxScore = s
			best = action
		}
	}
	return best, d.children[best]
}

func (d *decision) prior(action game.Action) float64 {
	if p, ok := d.priors[action]; ok {
		return p
	}
	return 1 / float64(len(d.actions))
}

// setPriors aligns an evaluator policy with the node's legal actions.
func (d *decision) setPriors(policy []float64) error {
	if policy == nil || d.terminal {
		return nil
	}
	if len(policy) != len(d.actions) {
		return fmt.Errorf("%w: policy has %d entries for %d actions", ErrEvaluation, len(policy), len(d.actions))
	}
	d.priors = make(map[game.Action]float64, len(policy))
	for i, action := range d.actions {
		d.priors[action] = policy[i]
	}
	return nil
}

func (d *decision) Update(t score.Tuple) Node {
	d.record(t)
	return d.parent
}
