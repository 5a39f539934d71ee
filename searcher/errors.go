package searcher

import "errors"

var (
	// ErrConfig reports an unusable engine configuration.
	ErrConfig = errors.New("invalid search configuration")
	// ErrIllegalAction reports an action that is not legal at the root.
	ErrIllegalAction = errors.New("illegal action")
	// ErrNoActions reports a state that is not over but has no legal action.
	ErrNoActions = errors.New("state has no legal actions")
	// ErrTerminal reports an attempt to search or expand a finished game.
	ErrTerminal = errors.New("state is terminal")
	// ErrBookkeeping reports inconsistent node statistics or outcome sets.
	ErrBookkeeping = errors.New("search tree bookkeeping defect")
	// ErrEvaluation wraps failures of the evaluator.
	ErrEvaluation = errors.New("evaluation failed")
)
