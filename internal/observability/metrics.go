package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the risk service.
type Metrics struct {
	PredictionsServed *prometheus.CounterVec // labels: level={Low,Medium,High}
	WeatherFetches    *prometheus.CounterVec // labels: outcome={success,error}
	GridCellsSkipped  prometheus.Counter
	ModelRetrains     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "predictions_served_total",
			Help:      "Risk predictions served, by tier.",
		}, []string{"level"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "weather_fetches_total",
			Help:      "Weather collaborator calls by outcome.",
		}, []string{"outcome"}),
		GridCellsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "grid_cells_skipped_total",
			Help:      "Grid cells dropped because their weather fetch failed.",
		}),
		ModelRetrains: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "model_retrains_total",
			Help:      "Classifier retrains triggered by a missing or unusable artifact.",
		}),
	}

	prometheus.MustRegister(
		m.PredictionsServed,
		m.WeatherFetches,
		m.GridCellsSkipped,
		m.ModelRetrains,
	)
	return m
}

// NewTestMetrics creates unregistered metrics for tests, avoiding default
// registry collisions across packages.
func NewTestMetrics() *Metrics {
	return &Metrics{
		PredictionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_predictions"}, []string{"level"}),
		WeatherFetches:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_weather"}, []string{"outcome"}),
		GridCellsSkipped:  prometheus.NewCounter(prometheus.CounterOpts{Name: "test_skipped"}),
		ModelRetrains:     prometheus.NewCounter(prometheus.CounterOpts{Name: "test_retrains"}),
	}
}
