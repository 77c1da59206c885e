package metrics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulpemventures/coinselect/internal/core/ports"
)

const namespace = "coinselect"

var (
	inputsBuckets     = []float64{1, 2, 3, 5, 10, 20, 50, 100, 145}
	iterationsBuckets = []float64{10, 100, 1000, 5000, 10000, 25000}
)

// Observer keeps track of coin selections and searches with Prometheus
// metrics, gathered in its own registry.
type Observer struct {
	registry *prometheus.Registry

	selections     *prometheus.CounterVec
	selectedInputs prometheus.Histogram
	iterations     *prometheus.HistogramVec
	budgetExceeded *prometheus.CounterVec
}

func NewObserver() (*Observer, error) {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Number of coin selections by engine, strategy, tier and outcome.",
		}, []string{"engine", "strategy", "tier", "outcome"}),
		selectedInputs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selected_inputs",
			Help:      "Number of coins of successful selections.",
			Buckets:   inputsBuckets,
		}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_iterations",
			Help:      "Number of iterations of coin searches by mode.",
			Buckets:   iterationsBuckets,
		}, []string{"mode"}),
		budgetExceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_budget_exceeded_total",
			Help:      "Number of coin searches that gave up, by mode.",
		}, []string{"mode"}),
	}

	for _, c := range []prometheus.Collector{
		o.selections, o.selectedInputs, o.iterations, o.budgetExceeded,
	} {
		if err := o.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) ObserveSelection(event ports.SelectionEvent) {
	o.selections.WithLabelValues(
		event.Engine, event.Strategy, event.Tier, event.Outcome,
	).Inc()
	if event.Inputs > 0 {
		o.selectedInputs.Observe(float64(event.Inputs))
	}
}

func (o *Observer) ObserveSearch(event ports.SearchEvent) {
	o.iterations.WithLabelValues(event.Mode).Observe(float64(event.Iterations))
	if event.GaveUp {
		o.budgetExceeded.WithLabelValues(event.Mode).Inc()
	}
}

func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Dump writes the gathered metrics to a new file in the given directory and
// returns its path.
func (o *Observer) Dump(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(
		dir, fmt.Sprintf("%s-%s.metrics", namespace, time.Now().Format(time.RFC3339Nano)),
	)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	metricFamily, err := o.registry.Gather()
	if err != nil {
		return "", err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return "", err
		}
	}
	return path, nil
}
