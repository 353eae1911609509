package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ForecastSource returns today's normalized reading. Failures are reported as
// domain.UnknownReading.
type ForecastSource interface {
	Fetch(ctx context.Context) domain.ForecastReading
}

// Pipeline runs one fetch-compose-deliver-persist cycle.
type Pipeline struct {
	source  ForecastSource
	store   PriorTemperatureStore
	alerter *Alerter
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates a Pipeline with the given stages and observability.
func New(source ForecastSource, store PriorTemperatureStore, messenger Messenger, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:  source,
		store:   store,
		alerter: NewAlerter(messenger, store, logger, metrics),
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run executes a single invocation. The returned error is non-nil only when
// the alert text could not be delivered.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.clock.Now()
	p.logger.Info("run started")

	reading := p.source.Fetch(ctx)
	prior := p.LoadPrior(ctx)

	err := p.alerter.React(ctx, reading, prior)

	end := p.clock.Now()
	p.metrics.RunDuration.Set(end.Sub(start).Seconds())
	p.metrics.LastRunTimestamp.Set(float64(end.Unix()))
	if err != nil {
		return err
	}
	p.metrics.LastSuccessTimestamp.Set(float64(end.Unix()))
	p.logger.Info("run finished", "duration", end.Sub(start))
	return nil
}

// Preview fetches and composes without delivering or saving anything.
func (p *Pipeline) Preview(ctx context.Context) (domain.ForecastReading, domain.Alert) {
	reading := p.source.Fetch(ctx)
	return reading, domain.Compose(reading, p.LoadPrior(ctx))
}

// LoadPrior reads the stored prior temperature. A load failure is logged and
// treated as "no prior".
func (p *Pipeline) LoadPrior(ctx context.Context) domain.PriorTemperature {
	v, ok, err := p.store.Load(ctx)
	if err != nil {
		p.logger.Warn("failed to load prior temperature, ignoring it", "error", err)
		p.metrics.StateErrors.WithLabelValues("load").Inc()
		return domain.NoPriorTemperature()
	}
	if !ok {
		return domain.NoPriorTemperature()
	}
	return domain.KnownPriorTemperature(v)
}
