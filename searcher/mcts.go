package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"expectimax/game"
	"expectimax/metrics"
	"expectimax/score"
)

type Option func(mcts *MCTS)

// MCTS is an expectimax Monte Carlo tree search engine. An engine runs one
// search at a time; use an Ensemble to search in parallel.
type MCTS struct {
	config    Config
	evaluator game.Evaluator
	metrics   metrics.Collector
	rng       *rand.Rand
}

func WithConfig(config Config) Option {
	return func(m *MCTS) {
		m.config = config
	}
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		m.config.Iterations = iterations
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		m.config.Duration = duration
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		m.config.Exploration = c
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.config.Seed = seed
	}
}

func WithEvaluation(evaluation Evaluation) Option {
	return func(m *MCTS) {
		m.config.Evaluation = evaluation
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		m.config.Cutoff = depth
	}
}

func WithSelection(selection Selection) Option {
	return func(m *MCTS) {
		m.config.Selection = selection
	}
}

func WithChanceSampling(sampling Sampling) Option {
	return func(m *MCTS) {
		m.config.ChanceSampling = sampling
	}
}

func WithNormalization(normalization Normalization) Option {
	return func(m *MCTS) {
		m.config.Normalization = normalization
	}
}

func WithBoundWeight(weight float64) Option {
	return func(m *MCTS) {
		m.config.BoundWeight = weight
	}
}

func WithEvaluator(evaluator game.Evaluator) Option {
	return func(m *MCTS) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

// WithEvaluationFn scores leaves with a scalar estimate for the player to act.
func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluator = game.FromEstimate(evaluate)
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

// NewMCTS builds an engine from the default configuration and options. Leaf
// evaluation with an evaluator requires one to be supplied; rollouts fall back
// to game.EvaluateReward at the cutoff.
func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{
		config:  DefaultConfig(),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}

	if err := m.config.Validate(); err != nil {
		return nil, err
	}
	if m.evaluator == nil {
		if m.config.Evaluation == EvaluateLeaf {
			return nil, fmt.Errorf("%w: evaluation %q needs an evaluator", ErrConfig, EvaluateLeaf)
		}
		m.evaluator = game.FromEstimate(game.EvaluateReward)
	}
	return m, nil
}

func (m *MCTS) Config() Config {
	return m.config
}

// BestAction searches from state and returns the recommended action with the
// value table aligned to state.LegalActions().
func (m *MCTS) BestAction(ctx context.Context, state game.State) (game.Action, []float64, error) {
	result, err := m.Search(ctx, state)
	if err != nil {
		return nil, nil, err
	}
	return result.Action, result.Values, nil
}

// Search builds a fresh tree from a copy of state and runs iterations until
// the budget is spent. The RNG is reseeded on every call, so equal inputs give
// equal results. When an iteration fails the partial result is returned with
// the error.
func (m *MCTS) Search(ctx context.Context, state game.State) (*Result, error) {
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Logger()

	root, err := newDecision(nil, state.Copy())
	if err != nil {
		return nil, err
	}
	if root.IsTerminal() {
		return nil, fmt.Errorf("cannot search from a finished game: %w", ErrTerminal)
	}
	normalizer, err := newNormalizer(m.config.Normalization, state)
	if err != nil {
		return nil, err
	}

	m.rng = rand.New(rand.NewSource(m.config.Seed))
	m.metrics.Start(runID)
	logger.Debug().
		Int("player", root.player).
		Int("actions", len(root.actions)).
		Int("iterations", m.config.Iterations).
		Dur("duration", m.config.Duration).
		Msg("search started")

	iterations, searchErr := 0, m.rootPriors(root)
	if searchErr == nil {
		iterations, searchErr = m.run(ctx, root)
	}
	if searchErr != nil {
		logger.Warn().Err(searchErr).Int("iterations", iterations).Msg("search aborted")
	}

	result := newResult(root)
	result.RunID = runID
	result.Iterations = iterations
	if err := result.summarize(normalizer); err != nil && searchErr == nil {
		searchErr = err
	}
	result.Metrics = m.metrics.Complete()

	logger.Debug().
		Int("iterations", iterations).
		Interface("action", result.Action).
		Dur("elapsed", result.Metrics.Duration).
		Msg("search finished")
	return result, searchErr
}

// rootPriors asks the evaluator for the root policy. The root is never a leaf,
// so PUCT would otherwise treat its actions uniformly.
func (m *MCTS) rootPriors(root *decision) error {
	if m.config.Selection != PUCT || m.config.Evaluation != EvaluateLeaf {
		return nil
	}
	_, policy, err := m.predict(root.state)
	if err != nil {
		return err
	}
	return root.setPriors(policy)
}

// run performs at least one iteration, then stops once either budget is spent.
func (m *MCTS) run(ctx context.Context, root *decision) (int, error) {
	start := time.Now()
	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return iterations, fmt.Errorf("search interrupted after %d iterations: %w", iterations, err)
		}
		if err := m.simulate(root); err != nil {
			return iterations, err
		}
		iterations++
		m.metrics.AddEpisode()

		if m.config.Iterations > 0 && iterations >= m.config.Iterations {
			return iterations, nil
		}
		if m.config.Duration > 0 && time.Since(start) >= m.config.Duration {
			return iterations, nil
		}
	}
}

// simulate runs one iteration. Statistics only change once the leaf has a
// value, so a failed iteration leaves the tree consistent.
func (m *MCTS) simulate(root *decision) error {
	leaf, err := m.selectThenExpand(root)
	if err != nil {
		return err
	}
	value, err := m.evaluate(leaf)
	if err != nil {
		return err
	}
	backup(leaf, value)
	return nil
}

// selectThenExpand descends by the tree policy at decision nodes and by
// outcome sampling at chance nodes until it creates a new node or reaches a
// terminal one. A new chance node realizes its first outcome right away, so
// the returned leaf is always a decision node.
func (m *MCTS) selectThenExpand(root *decision) (*decision, error) {
	node := root
	for {
		if node.IsTerminal() {
			return node, nil
		}

		var child Node
		if !node.IsFullyExpanded() {
			_, expanded, err := node.Expand(m.rng)
			if err != nil {
				return nil, err
			}
			m.metrics.AddNode()
			if d, ok := expanded.(*decision); ok {
				return d, nil
			}
			child = expanded
		} else {
			_, child = node.Select(m.config.Exploration, m.config.Selection)
		}

		switch child := child.(type) {
		case *decision:
			node = child
		case *chance:
			if !child.IsFullyExpanded() {
				_, leaf, err := child.Expand(m.rng)
				if err != nil {
					return nil, err
				}
				m.metrics.AddNode()
				return leaf, nil
			}
			_, next, err := child.Sample(m.rng, m.config.ChanceSampling)
			if err != nil {
				return nil, err
			}
			node = next
		default:
			panic("unexpected node type")
		}
	}
}

func (m *MCTS) evaluate(leaf *decision) (score.Tuple, error) {
	if leaf.IsTerminal() {
		m.metrics.AddFullPlayout()
		return leaf.reward.Clone(), nil
	}

	var value score.Tuple
	switch m.config.Evaluation {
	case EvaluateLeaf:
		v, policy, err := m.predict(leaf.state)
		if err != nil {
			return nil, err
		}
		if err := leaf.setPriors(policy); err != nil {
			return nil, err
		}
		value = v
	default:
		v, err := m.rollout(leaf.state.Copy())
		if err != nil {
			return nil, err
		}
		value = v
	}

	return m.bound(leaf, value)
}

func (m *MCTS) predict(state game.State) (score.Tuple, []float64, error) {
	m.metrics.AddEvaluation()
	value, policy, err := m.evaluator.Predict(state)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	if len(value) != state.NumPlayers() {
		return nil, nil, fmt.Errorf("%w: value %v for %d players", ErrEvaluation, value, state.NumPlayers())
	}
	return value.Clone(), policy, nil
}

// rollout plays uniformly random moves until the game ends or the cutoff is
// reached, where the evaluator estimates the position.
func (m *MCTS) rollout(state game.State) (score.Tuple, error) {
	for depth := 0; !state.IsGameOver(); depth++ {
		if m.config.Cutoff > 0 && depth >= m.config.Cutoff {
			value, _, err := m.predict(state)
			return value, err
		}

		actions := state.LegalActions()
		if len(actions) == 0 {
			return nil, fmt.Errorf("%w: player %d to act in rollout", ErrNoActions, state.Player())
		}
		if err := m.play(state, actions[m.rng.Intn(len(actions))]); err != nil {
			return nil, err
		}
	}

	m.metrics.AddFullPlayout()
	reward := state.Reward()
	if len(reward) != state.NumPlayers() {
		return nil, fmt.Errorf("%w: reward %v for %d players", ErrEvaluation, reward, state.NumPlayers())
	}
	return reward, nil
}

func (m *MCTS) play(state game.State, action game.Action) error {
	if !game.IsStochastic(state, action) {
		state.Advance(action)
		return nil
	}

	stochastic := state.(game.Stochastic)
	stochastic.AdvanceDeterministic(action)
	outcome, err := drawOutcome(m.rng, stochastic, distinct(stochastic.Outcomes()), m.config.ChanceSampling)
	if err != nil {
		return err
	}
	stochastic.AdvanceNondeterministic(outcome)
	return nil
}

// bound lifts the leaf value towards an external bound for the player to act,
// when the state provides one.
func (m *MCTS) bound(leaf *decision, value score.Tuple) (score.Tuple, error) {
	bounder, ok := leaf.state.(game.Bounder)
	if !ok {
		return value, nil
	}
	bound, ok := bounder.Bound()
	if !ok {
		return value, nil
	}

	if _, err := value.Combine(bound, score.Max, leaf.player, m.config.BoundWeight, m.config.Consistency.rule()); err != nil {
		return nil, fmt.Errorf("%w: combine with bound: %w", ErrEvaluation, err)
	}
	return value, nil
}
