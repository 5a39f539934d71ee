package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prometheusCollector counts per run like collector and also exports running
// totals across runs.
type prometheusCollector struct {
	collector
	searches     prometheus.Counter
	episodes     prometheus.Counter
	fullPlayouts prometheus.Counter
	evaluations  prometheus.Counter
	nodes        prometheus.Counter
	duration     prometheus.Histogram
}

// NewPrometheusCollector registers the search metrics with reg. Registering
// twice with the same registerer panics, as promauto does.
func NewPrometheusCollector(reg prometheus.Registerer) Collector {
	factory := promauto.With(reg)
	return &prometheusCollector{
		searches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expectimax",
			Name:      "searches_total",
			Help:      "Number of completed searches.",
		}),
		episodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expectimax",
			Name:      "episodes_total",
			Help:      "Number of completed search iterations.",
		}),
		fullPlayouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expectimax",
			Name:      "full_playouts_total",
			Help:      "Number of iterations valued by a finished game.",
		}),
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expectimax",
			Name:      "evaluations_total",
			Help:      "Number of evaluator calls.",
		}),
		nodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expectimax",
			Name:      "nodes_total",
			Help:      "Number of search tree nodes created.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "expectimax",
			Name:      "search_duration_seconds",
			Help:      "Wall clock time of a search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *prometheusCollector) AddEpisode() {
	m.collector.AddEpisode()
	m.episodes.Inc()
}

func (m *prometheusCollector) AddFullPlayout() {
	m.collector.AddFullPlayout()
	m.fullPlayouts.Inc()
}

func (m *prometheusCollector) AddEvaluation() {
	m.collector.AddEvaluation()
	m.evaluations.Inc()
}

func (m *prometheusCollector) AddNode() {
	m.collector.AddNode()
	m.nodes.Inc()
}

func (m *prometheusCollector) Complete() SearchMetric {
	metric := m.collector.Complete()
	m.searches.Inc()
	m.duration.Observe(metric.Duration.Seconds())
	return metric
}
