package agent

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"expectimax/game"
	"expectimax/searcher"
)

type trainingAgent struct {
	searcher    Searcher
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play during training. It samples
// moves in proportion to visits^(1/temperature); a temperature of 0 plays the
// most visited move.
func NewTrainingAgent(s Searcher, temperature float64, seed uint64) (Agent, error) {
	if temperature < 0 || math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return nil, fmt.Errorf("%w: temperature %v", searcher.ErrConfig, temperature)
	}
	return &trainingAgent{
		searcher:    s,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

func (a *trainingAgent) FindMove(ctx context.Context, state game.State) (game.Action, error) {
	result, err := a.searcher.Search(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("find move: %w", err)
	}

	policy := adjustTemperature(result.Visits(), a.temperature)
	if policy == nil {
		return result.Action, nil
	}
	i := sample(policy, a.rng.Float64())
	log.Debug().
		Str("run", result.RunID).
		Interface("action", result.Actions[i]).
		Float64("probability", policy[i]).
		Msg("sampled training move")
	return result.Actions[i], nil
}

// adjustTemperature turns visit counts into move probabilities. It returns nil
// when nothing was visited.
func adjustTemperature(visits []int, temperature float64) []float64 {
	adjusted := make([]float64, len(visits))

	if temperature == 0 {
		best := -1
		for i, v := range visits {
			if v > 0 && (best < 0 || v > visits[best]) {
				best = i
			}
		}
		if best < 0 {
			return nil
		}
		adjusted[best] = 1
		return adjusted
	}

	exponent := 1.0 / temperature
	sum := 0.0
	for i, visit := range visits {
		prob := math.Pow(float64(visit), exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return nil
	}
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	last := 0
	for i, prob := range policy {
		if prob == 0 {
			continue
		}
		last = i
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return last // rounding
}
