package searcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		config := DefaultConfig()
		config.Exploration = -1
		config.BoundWeight = 2
		config.Selection = "greedy"
		config.Iterations = 0

		err := config.Validate()
		require.ErrorIs(t, err, ErrConfig)

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		require.Len(t, merr.Errors, 4, "Should collect all four problems: %v", err)
	})

	t.Run("duration alone is a budget", func(t *testing.T) {
		config := DefaultConfig()
		config.Iterations = 0
		config.Duration = time.Second
		require.NoError(t, config.Validate())
	})

	t.Run("unknown enum values", func(t *testing.T) {
		for name, mutate := range map[string]func(*Config){
			"evaluation":    func(c *Config) { c.Evaluation = "guess" },
			"sampling":      func(c *Config) { c.ChanceSampling = "" },
			"normalization": func(c *Config) { c.Normalization = "zscore" },
			"consistency":   func(c *Config) { c.Consistency = "constant_sum" },
		} {
			config := DefaultConfig()
			mutate(&config)
			require.ErrorIs(t, config.Validate(), ErrConfig, "Invalid %s should be rejected", name)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "search.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("file over defaults", func(t *testing.T) {
		path := write(t, `
iterations: 0
duration: 250ms
exploration: 1.0
selection: puct
chance_sampling: weighted
normalization: minmax
bound_weight: 0.5
`)

		config, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 0, config.Iterations)
		require.Equal(t, 250*time.Millisecond, config.Duration)
		require.Equal(t, 1.0, config.Exploration)
		require.Equal(t, PUCT, config.Selection)
		require.Equal(t, Weighted, config.ChanceSampling)
		require.Equal(t, MinMax, config.Normalization)
		require.Equal(t, 0.5, config.BoundWeight)
		require.Equal(t, Rollout, config.Evaluation, "Unset keys keep their defaults")
	})

	t.Run("missing file keeps defaults", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), config)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := write(t, "iterations: 50\nseed: 3\n")
		t.Setenv("EXPECTIMAX_ITERATIONS", "75")
		t.Setenv("EXPECTIMAX_SEED", "11")
		t.Setenv("EXPECTIMAX_EXPLORATION", "0.7")
		t.Setenv("EXPECTIMAX_DURATION", "1s")
		t.Setenv("EXPECTIMAX_EVALUATION", "rollout")

		config, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 75, config.Iterations)
		require.Equal(t, uint64(11), config.Seed)
		require.Equal(t, 0.7, config.Exploration)
		require.Equal(t, time.Second, config.Duration)
	})

	t.Run("malformed environment", func(t *testing.T) {
		t.Setenv("EXPECTIMAX_ITERATIONS", "many")

		_, err := LoadConfig("")
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("malformed override keeps the file value", func(t *testing.T) {
		t.Setenv("EXPECTIMAX_ITERATIONS", "many")
		t.Setenv("EXPECTIMAX_SEED", "-3")

		config := DefaultConfig()
		config.Iterations = 50
		err := loadConfigFromEnv(&config)
		require.ErrorIs(t, err, ErrConfig)
		require.Equal(t, 50, config.Iterations, "Unparsable iterations should not overwrite the value")
		require.Equal(t, DefaultConfig().Seed, config.Seed, "Unparsable seed should not overwrite the value")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadConfig(write(t, "iterations: [1, 2\n"))
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadConfig(write(t, "bound_weight: -1\n"))
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("loaded config builds an engine", func(t *testing.T) {
		config, err := LoadConfig(write(t, "iterations: 20\nseed: 5\n"))
		require.NoError(t, err)

		m, err := NewMCTS(WithConfig(config))
		require.NoError(t, err)
		require.Equal(t, config, m.Config())
	})
}
