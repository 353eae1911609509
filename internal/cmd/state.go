package cmd

import (
	"fmt"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/adapter/state"
	"github.com/couchcryptid/weather-alert-bot/internal/config"
	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the stored prior temperature",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the temperature recorded by the last run",
	RunE:  runStateShow,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := state.Open(cfg, clockwork.NewRealClock())
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer store.Close()

	snap, ok, err := store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Backend: %s\n", cfg.StateBackend)
	if !ok {
		fmt.Fprintln(out, "No prior temperature recorded")
		return nil
	}
	fmt.Fprintf(out, "Prior temperature: %s°C\n", domain.FormatCelsius(snap.Celsius))
	if !snap.ObservedAt.IsZero() {
		fmt.Fprintf(out, "Recorded at: %s\n", snap.ObservedAt.Format(time.RFC3339))
	}
	return nil
}
