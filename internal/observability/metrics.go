package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_bot"

// Metrics holds the Prometheus collectors for one bot run. Every run owns a
// private registry; the collected values are pushed to a Pushgateway at exit.
type Metrics struct {
	Registry *prometheus.Registry

	ForecastFetches      *prometheus.CounterVec // labels: outcome={success,network_error,data_shape_error,error}
	AverageTemperature   prometheus.Gauge
	Alerts               *prometheus.CounterVec // labels: outcome={sent,suppressed,skipped_unknown,delivery_error,error}
	IllustrationsMissing prometheus.Counter
	StateErrors          *prometheus.CounterVec // labels: op={load,save}
	RunDuration          prometheus.Gauge
	LastRunTimestamp     prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates all collectors and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ForecastFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_fetch_total",
			Help:      "Forecast requests by outcome.",
		}, []string{"outcome"}),
		AverageTemperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_temperature_celsius",
			Help:      "Average of today's forecast max and min temperature.",
		}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alert decisions by outcome.",
		}, []string{"outcome"}),
		IllustrationsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "illustrations_missing_total",
			Help:      "Sticker files that could not be found on disk.",
		}),
		StateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_errors_total",
			Help:      "Prior-temperature store failures by operation.",
		}, []string{"op"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that ended without a delivery error.",
		}),
	}

	m.Registry.MustRegister(
		m.ForecastFetches,
		m.AverageTemperature,
		m.Alerts,
		m.IllustrationsMissing,
		m.StateErrors,
		m.RunDuration,
		m.LastRunTimestamp,
		m.LastSuccessTimestamp,
	)

	return m
}
