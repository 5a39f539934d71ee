package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one search run.
type SearchMetric struct {
	RunID        string
	Duration     time.Duration
	Episodes     int // completed iterations
	FullPlayouts int // iterations whose value came from a finished game
	Evaluations  int // evaluator calls
	Nodes        int // tree nodes created
	Workers      int
}

// Merge adds up the counters of parallel runs. The duration is the longest
// of them since they ran side by side.
func Merge(runID string, metrics ...SearchMetric) SearchMetric {
	merged := SearchMetric{RunID: runID}
	for _, m := range metrics {
		merged.Duration = max(merged.Duration, m.Duration)
		merged.Episodes += m.Episodes
		merged.FullPlayouts += m.FullPlayouts
		merged.Evaluations += m.Evaluations
		merged.Nodes += m.Nodes
		merged.Workers += max(m.Workers, 1)
	}
	return merged
}

type Collector interface {
	Start(runID string)
	AddEpisode()
	AddFullPlayout()
	AddEvaluation()
	AddNode()
	Complete() SearchMetric
}

type collector struct {
	runID        string
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	evaluations  atomic.Int32
	nodes        atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new run.
func (m *collector) Start(runID string) {
	m.runID = runID
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.evaluations.Store(0)
	m.nodes.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		RunID:        m.runID,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Evaluations:  int(m.evaluations.Load()),
		Nodes:        int(m.nodes.Load()),
		Workers:      1,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(runID string)     {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) AddEvaluation()         {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
