package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
)

// ErrDelivery wraps a failure to send the alert text. It is the only
// composition-stage error that ends a run abnormally.
var ErrDelivery = errors.New("alert delivery failed")

// Messenger sends a sticker and a text to the configured chat.
type Messenger interface {
	SendIllustration(ctx context.Context, name string) error
	SendMessage(ctx context.Context, text string) error
}

// PriorTemperatureStore loads and saves yesterday's average temperature.
type PriorTemperatureStore interface {
	Load(ctx context.Context) (float64, bool, error)
	Save(ctx context.Context, celsius float64) error
}

// Alerter turns a reading into a notification, delivers it and records the
// reading as the next run's prior temperature.
type Alerter struct {
	messenger Messenger
	store     PriorTemperatureStore
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewAlerter creates an Alerter.
func NewAlerter(messenger Messenger, store PriorTemperatureStore, logger *slog.Logger, metrics *observability.Metrics) *Alerter {
	return &Alerter{
		messenger: messenger,
		store:     store,
		logger:    logger,
		metrics:   metrics,
	}
}

// React composes and delivers the alert for reading.
//
// An unknown reading ends the call immediately: nothing is sent and the
// stored prior temperature is left untouched. Otherwise the reading's
// temperature is saved whether or not anything was delivered. Only a failed
// text delivery is returned (wrapped in ErrDelivery); other failures are
// logged and swallowed.
func (a *Alerter) React(ctx context.Context, reading domain.ForecastReading, prior domain.PriorTemperature) error {
	if reading.IsUnknown() {
		a.logger.Info("could not determine the weather, skipping alert")
		a.metrics.Alerts.WithLabelValues("skipped_unknown").Inc()
		return nil
	}

	err := a.composeAndDeliver(ctx, reading, prior)
	a.savePrior(ctx, reading.Temperature)
	return err
}

func (a *Alerter) composeAndDeliver(ctx context.Context, reading domain.ForecastReading, prior domain.PriorTemperature) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("unexpected error while sending alert", "panic", r)
			a.metrics.Alerts.WithLabelValues("error").Inc()
			err = nil
		}
	}()

	alert := domain.Compose(reading, prior)
	a.logger.Debug("alert composed",
		"temperature", reading.Temperature,
		"category", reading.Category,
		"illustration", alert.Illustration,
		"weather_triggered", alert.WeatherTriggered,
		"cold_snap", alert.ColdSnap,
	)

	if !alert.Deliverable() {
		a.logger.Info("no illustration selected, alert not sent", "category", reading.Category)
		a.metrics.Alerts.WithLabelValues("suppressed").Inc()
		return nil
	}

	if err := a.messenger.SendIllustration(ctx, alert.Illustration); err != nil {
		if !errors.Is(err, domain.ErrIllustrationNotFound) {
			a.logger.Error("unexpected error while sending alert", "error", err)
			a.metrics.Alerts.WithLabelValues("error").Inc()
			return nil
		}
		a.logger.Warn("illustration not found", "illustration", alert.Illustration, "error", err)
		a.metrics.IllustrationsMissing.Inc()
	}

	if err := a.messenger.SendMessage(ctx, alert.Text); err != nil {
		a.logger.Error("failed to send message", "error", err)
		a.metrics.Alerts.WithLabelValues("delivery_error").Inc()
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	a.metrics.Alerts.WithLabelValues("sent").Inc()
	return nil
}

func (a *Alerter) savePrior(ctx context.Context, celsius float64) {
	if err := a.store.Save(ctx, celsius); err != nil {
		a.logger.Error("failed to save prior temperature", "error", err, "temperature", celsius)
		a.metrics.StateErrors.WithLabelValues("save").Inc()
		return
	}
	a.logger.Debug("prior temperature saved", "temperature", celsius)
}
