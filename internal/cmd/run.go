package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-alert-bot/internal/adapter/state"
	"github.com/couchcryptid/weather-alert-bot/internal/adapter/telegram"
	"github.com/couchcryptid/weather-alert-bot/internal/config"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
	"github.com/couchcryptid/weather-alert-bot/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

const pushTimeout = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the forecast and post the alert",
	Long: `Fetch today's forecast, compose the alert and post it to the configured
chat, then record today's average temperature for tomorrow's comparison.`,
	RunE: runAlert,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// app holds the wired collaborators for a single invocation.
type app struct {
	cfg      *config.Config
	metrics  *observability.Metrics
	store    state.Store
	pipeline *pipeline.Pipeline
}

func newApp(withMessenger bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	store, err := state.Open(cfg, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	var messenger pipeline.Messenger
	if withMessenger {
		m, err := telegram.NewMessenger(cfg.TelegramToken, cfg.TelegramAPIEndpoint, cfg.ChatID, cfg.IllustrationsDir, cfg.TelegramTimeout, logger)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create telegram messenger: %w", err)
		}
		messenger = m
	}

	source := openmeteo.NewClient(cfg.WeatherAPIURL, openmeteo.Location{
		Latitude:  cfg.WeatherLatitude,
		Longitude: cfg.WeatherLongitude,
		Timezone:  cfg.WeatherTimezone,
	}, cfg.WeatherTimeout, logger, metrics)

	logger.Info("weatherbot configured",
		"state_backend", cfg.StateBackend,
		"latitude", cfg.WeatherLatitude,
		"longitude", cfg.WeatherLongitude,
		"illustrations_dir", cfg.IllustrationsDir,
	)

	return &app{
		cfg:      cfg,
		metrics:  metrics,
		store:    store,
		pipeline: pipeline.New(source, store, messenger, logger, metrics, clock),
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}

func runAlert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	runErr := a.pipeline.Run(ctx)

	pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := a.metrics.Push(pushCtx, a.cfg.PushgatewayURL, a.cfg.PushgatewayJob); err != nil {
		cmd.PrintErrf("failed to push metrics: %v\n", err)
	}

	return runErr
}
