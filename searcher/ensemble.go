package searcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"expectimax/game"
	"expectimax/metrics"
)

// Ensemble runs independent engines on separate trees in parallel and merges
// their root statistics. Worker i is seeded with seed+i.
type Ensemble struct {
	workers int
	config  Config
	options []Option
}

func NewEnsemble(workers int, options ...Option) (*Ensemble, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least one worker, got %d", ErrConfig, workers)
	}
	m, err := NewMCTS(options...)
	if err != nil {
		return nil, err
	}
	return &Ensemble{workers: workers, config: m.config, options: options}, nil
}

func (e *Ensemble) Config() Config {
	return e.config
}

// BestAction is MCTS.BestAction over the merged statistics.
func (e *Ensemble) BestAction(ctx context.Context, state game.State) (game.Action, []float64, error) {
	result, err := e.Search(ctx, state)
	if err != nil {
		return nil, nil, err
	}
	return result.Action, result.Values, nil
}

// Search runs every worker to completion, or until one fails and cancels the
// rest. Visits and value totals are summed per root action in worker order.
func (e *Ensemble) Search(ctx context.Context, state game.State) (*Result, error) {
	runID := uuid.NewString()
	normalizer, err := newNormalizer(e.config.Normalization, state)
	if err != nil {
		return nil, err
	}

	engines := make([]*MCTS, e.workers)
	for i := range engines {
		options := append(e.options[:len(e.options):len(e.options)],
			WithSeed(e.config.Seed+uint64(i)),
			WithMetrics(metrics.NewCollector()),
		)
		if engines[i], err = NewMCTS(options...); err != nil {
			return nil, err
		}
	}

	results := make([]*Result, e.workers)
	errs := make([]error, e.workers)
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range engines {
		worker := state.Copy()
		g.Go(func() error {
			results[i], errs[i] = m.Search(ctx, worker)
			return errs[i]
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	for i, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("worker %d: %w", i, err))
		}
	}

	merged, err := merge(runID, results, normalizer)
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	log.Debug().
		Str("run", runID).
		Int("workers", e.workers).
		Int("iterations", merged.Iterations).
		Interface("action", merged.Action).
		Msg("ensemble search finished")
	return merged, merr.ErrorOrNil()
}

func merge(runID string, results []*Result, normalizer Normalizer) (*Result, error) {
	var merged *Result
	var runs []metrics.SearchMetric
	for _, r := range results {
		if r == nil {
			continue
		}
		runs = append(runs, r.Metrics)
		if merged == nil {
			merged = &Result{
				Player:  r.Player,
				Actions: r.Actions,
				Stats:   make([]ChildStats, len(r.Stats)),
			}
			for i, s := range r.Stats {
				s.Total = s.Total.Clone()
				merged.Stats[i] = s
			}
			merged.Iterations = r.Iterations
			continue
		}

		if len(r.Stats) != len(merged.Stats) {
			return merged, fmt.Errorf("%w: workers disagree on %d vs %d root actions", ErrBookkeeping, len(r.Stats), len(merged.Stats))
		}
		for i, s := range r.Stats {
			if s.Action != merged.Stats[i].Action {
				return merged, fmt.Errorf("%w: workers disagree on root action %d", ErrBookkeeping, i)
			}
			merged.Stats[i].Visits += s.Visits
			merged.Stats[i].Total.Add(s.Total)
			merged.Stats[i].Explored = merged.Stats[i].Explored || s.Explored
		}
		merged.Iterations += r.Iterations
	}

	if merged == nil {
		return &Result{RunID: runID}, nil
	}
	merged.RunID = runID
	merged.Metrics = metrics.Merge(runID, runs...)
	return merged, merged.summarize(normalizer)
}
