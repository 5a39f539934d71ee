package searcher

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"expectimax/game"
)

// Normalizer maps a value table onto [0, 1]. NaN entries mean "no data": they
// map to 0 and take no part in the transform.
type Normalizer interface {
	Normalize(values []float64) ([]float64, error)
}

// SoftmaxNormalizer returns exp(v_i) / sum_j exp(v_j), a distribution over the
// entries with data.
type SoftmaxNormalizer struct{}

func (SoftmaxNormalizer) Normalize(values []float64) ([]float64, error) {
	known := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: cannot normalize infinite value", ErrConfig)
		}
		known = append(known, v)
	}
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: no value to normalize", ErrConfig)
	}

	lse := floats.LogSumExp(known)
	probabilities := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			probabilities[i] = math.Exp(v - lse)
		}
	}
	return probabilities, nil
}

// MinMaxNormalizer rescales linearly from [Min, Max] to [0, 1].
type MinMaxNormalizer struct {
	Min float64
	Max float64
}

func NewMinMaxNormalizer(min, max float64) (MinMaxNormalizer, error) {
	n := MinMaxNormalizer{Min: min, Max: max}
	if err := n.check(); err != nil {
		return MinMaxNormalizer{}, err
	}
	return n, nil
}

func (n MinMaxNormalizer) check() error {
	if !(n.Max > n.Min) {
		return fmt.Errorf("%w: min-max range [%v, %v] is empty", ErrConfig, n.Min, n.Max)
	}
	return nil
}

func (n MinMaxNormalizer) Normalize(values []float64) ([]float64, error) {
	if err := n.check(); err != nil {
		return nil, err
	}

	normalized := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			normalized[i] = (v - n.Min) / (n.Max - n.Min)
		}
	}
	return normalized, nil
}

// newNormalizer builds the configured normalizer; min-max takes its range from
// the game's score bounds.
func newNormalizer(normalization Normalization, state game.State) (Normalizer, error) {
	switch normalization {
	case MinMax:
		return NewMinMaxNormalizer(state.MinScore(), state.MaxScore())
	case Softmax:
		return SoftmaxNormalizer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown normalization %q", ErrConfig, normalization)
	}
}
