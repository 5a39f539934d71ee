package searcher

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"expectimax/score"
)

// Evaluation selects how a newly expanded leaf is scored.
type Evaluation string

const (
	// EvaluateLeaf asks the evaluator for the leaf's value directly.
	EvaluateLeaf Evaluation = "evaluator"
	// Rollout plays random moves from the leaf to the end of the game, or to
	// the cutoff depth where the evaluator takes over.
	Rollout Evaluation = "rollout"
)

// Selection selects the tree policy at decision nodes.
type Selection string

const (
	UCT  Selection = "uct"
	PUCT Selection = "puct" // weights exploration by evaluator priors
)

// Sampling selects how a fully explored chance node replays its outcomes.
type Sampling string

const (
	Uniform  Sampling = "uniform"  // uniform over realized outcomes
	Weighted Sampling = "weighted" // by the game's outcome probabilities
)

// Normalization selects how a value table is turned into probabilities.
type Normalization string

const (
	Softmax Normalization = "softmax"
	MinMax  Normalization = "minmax"
)

// Consistency names the score.Rule applied when a leaf is combined with a bound.
type Consistency string

const (
	ZeroSum    Consistency = "zero_sum"
	GeneralSum Consistency = "general_sum"
)

func (c Consistency) rule() score.Rule {
	if c == GeneralSum {
		return score.GeneralSum
	}
	return score.ZeroSum
}

// Config holds every algorithm switch of an engine. It is fixed once the engine
// is built.
type Config struct {
	Exploration    float64       `yaml:"exploration" validate:"gte=0"`
	Iterations     int           `yaml:"iterations" validate:"gte=0"`
	Duration       time.Duration `yaml:"duration" validate:"gte=0"`
	Seed           uint64        `yaml:"seed"`
	Evaluation     Evaluation    `yaml:"evaluation" validate:"oneof=evaluator rollout"`
	Cutoff         int           `yaml:"cutoff" validate:"gte=0"` // rollout depth, 0 plays to the end
	Selection      Selection     `yaml:"selection" validate:"oneof=uct puct"`
	ChanceSampling Sampling      `yaml:"chance_sampling" validate:"oneof=uniform weighted"`
	Normalization  Normalization `yaml:"normalization" validate:"oneof=softmax minmax"`
	BoundWeight    float64       `yaml:"bound_weight" validate:"gte=0,lte=1"`
	Consistency    Consistency   `yaml:"consistency" validate:"oneof=zero_sum general_sum"`
}

func DefaultConfig() Config {
	return Config{
		Exploration:    math.Sqrt2,
		Iterations:     1000,
		Seed:           1,
		Evaluation:     Rollout,
		Selection:      UCT,
		ChanceSampling: Uniform,
		Normalization:  Softmax,
		BoundWeight:    1,
		Consistency:    ZeroSum,
	}
}

var validate = validator.New()

// Validate reports every problem with the configuration at once. The returned
// error wraps ErrConfig.
func (c Config) Validate() error {
	var errs *multierror.Error

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		for _, fe := range fieldErrs {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s=%v fails %q", ErrConfig, fe.Field(), fe.Value(), fe.ActualTag()))
		}
	}
	if c.Iterations == 0 && c.Duration == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%w: must specify search iterations or duration", ErrConfig))
	}
	if math.IsNaN(c.Exploration) || math.IsInf(c.Exploration, 0) {
		errs = multierror.Append(errs, fmt.Errorf("%w: exploration must be finite", ErrConfig))
	}

	return errs.ErrorOrNil()
}

// LoadConfig reads a YAML file over the defaults, applies EXPECTIMAX_*
// environment overrides and validates the result. An empty path or a missing
// file leaves the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return config, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
			}
		}
	}

	if err := loadConfigFromEnv(&config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func loadConfigFromEnv(config *Config) error {
	var errs *multierror.Error

	if v := os.Getenv("EXPECTIMAX_ITERATIONS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: EXPECTIMAX_ITERATIONS: %w", ErrConfig, err))
		} else {
			config.Iterations = i
		}
	}
	if v := os.Getenv("EXPECTIMAX_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: EXPECTIMAX_DURATION: %w", ErrConfig, err))
		} else {
			config.Duration = d
		}
	}
	if v := os.Getenv("EXPECTIMAX_SEED"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: EXPECTIMAX_SEED: %w", ErrConfig, err))
		} else {
			config.Seed = s
		}
	}
	if v := os.Getenv("EXPECTIMAX_EXPLORATION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: EXPECTIMAX_EXPLORATION: %w", ErrConfig, err))
		} else {
			config.Exploration = f
		}
	}
	if v := os.Getenv("EXPECTIMAX_EVALUATION"); v != "" {
		config.Evaluation = Evaluation(v)
	}

	return errs.ErrorOrNil()
}
