package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts events of one run", func(t *testing.T) {
		c := NewCollector()
		c.Start("run-1")
		for range 3 {
			c.AddEpisode()
			c.AddNode()
		}
		c.AddFullPlayout()
		c.AddEvaluation()
		c.AddEvaluation()

		m := c.Complete()
		require.Equal(t, "run-1", m.RunID, "Run id should be kept")
		require.Equal(t, 3, m.Episodes, "Should count episodes")
		require.Equal(t, 3, m.Nodes, "Should count nodes")
		require.Equal(t, 1, m.FullPlayouts, "Should count full playouts")
		require.Equal(t, 2, m.Evaluations, "Should count evaluations")
		require.Equal(t, 1, m.Workers, "A single collector is one worker")
	})

	t.Run("start resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start("a")
		c.AddEpisode()
		c.Start("b")

		m := c.Complete()
		require.Equal(t, "b", m.RunID, "Run id should be replaced")
		require.Zero(t, m.Episodes, "Episodes should be reset")
	})

	t.Run("dummy collector reports nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start("x")
		c.AddEpisode()
		require.Equal(t, SearchMetric{}, c.Complete(), "Dummy collector should be empty")
	})
}

func TestMerge(t *testing.T) {
	merged := Merge("run",
		SearchMetric{Duration: time.Second, Episodes: 2, Nodes: 4, Workers: 1},
		SearchMetric{Duration: 3 * time.Second, Episodes: 5, Evaluations: 1, Workers: 1},
	)

	require.Equal(t, "run", merged.RunID)
	require.Equal(t, 3*time.Second, merged.Duration, "Parallel runs last as long as the slowest")
	require.Equal(t, 7, merged.Episodes)
	require.Equal(t, 4, merged.Nodes)
	require.Equal(t, 1, merged.Evaluations)
	require.Equal(t, 2, merged.Workers)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	for _, runID := range []string{"a", "b"} {
		c.Start(runID)
		c.AddEpisode()
		c.AddEpisode()
		c.AddNode()
		c.AddEvaluation()
		c.AddFullPlayout()
		m := c.Complete()
		require.Equal(t, 2, m.Episodes, "Per run counters should reset")
	}

	p := c.(*prometheusCollector)
	require.Equal(t, 2.0, testutil.ToFloat64(p.searches), "Should count searches across runs")
	require.Equal(t, 4.0, testutil.ToFloat64(p.episodes), "Should count episodes across runs")
	require.Equal(t, 2.0, testutil.ToFloat64(p.nodes))
	require.Equal(t, 2.0, testutil.ToFloat64(p.evaluations))
	require.Equal(t, 2.0, testutil.ToFloat64(p.fullPlayouts))

	count, err := testutil.GatherAndCount(reg, "expectimax_search_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count, "Duration histogram should be registered")

	require.Panics(t, func() { NewPrometheusCollector(reg) }, "Registering twice should panic")
}

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewWriter(dir)
	require.NoError(t, err)

	err = w.WriteSearches([]SearchMetric{
		{RunID: "a", Workers: 1, Duration: time.Second, Episodes: 10, FullPlayouts: 3, Evaluations: 7, Nodes: 11},
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "searches.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"run", "workers", "duration", "episodes", "full_playouts", "evaluations", "nodes"},
		{"a", "1", "1s", "10", "3", "7", "11"},
	}, rows)
}
