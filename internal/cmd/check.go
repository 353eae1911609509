package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/weather-alert-bot/internal/adapter/state"
	"github.com/couchcryptid/weather-alert-bot/internal/adapter/telegram"
	"github.com/couchcryptid/weather-alert-bot/internal/config"
	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the deployment before the first scheduled run",
	Long: `Check that every sticker the bot can select exists in ILLUSTRATIONS_DIR,
that the configured state store opens and reads cleanly, and that Telegram
accepts the bot token. No forecast is fetched and nothing is posted.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult collects the problems found by one group of checks.
type checkResult struct {
	title    string
	problems []string
}

func (r *checkResult) fail(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

func (r *checkResult) ok() bool { return len(r.problems) == 0 }

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := cmd.Context()

	results := []*checkResult{
		checkIllustrations(cfg.IllustrationsDir),
		checkState(ctx, cfg),
		checkTelegram(ctx, cfg),
	}

	if !report(cmd.OutOrStdout(), results) {
		return errors.New("deployment check failed")
	}
	return nil
}

func checkIllustrations(dir string) *checkResult {
	r := &checkResult{title: "Illustrations in " + dir}
	for _, name := range domain.Illustrations() {
		info, err := os.Stat(filepath.Join(dir, name))
		switch {
		case err != nil:
			r.fail("%s: %v", name, err)
		case info.IsDir():
			r.fail("%s: is a directory", name)
		case info.Size() == 0:
			r.fail("%s: empty file", name)
		}
	}
	return r
}

func checkState(ctx context.Context, cfg *config.Config) *checkResult {
	r := &checkResult{title: "State store (" + cfg.StateBackend + ")"}

	store, err := state.Open(cfg, clockwork.NewRealClock())
	if err != nil {
		r.fail("open: %v", err)
		return r
	}
	defer store.Close()

	if _, _, err := store.Load(ctx); err != nil {
		r.fail("load: %v", err)
	}
	return r
}

func checkTelegram(ctx context.Context, cfg *config.Config) *checkResult {
	r := &checkResult{title: "Telegram bot token"}

	m, err := telegram.NewMessenger(cfg.TelegramToken, cfg.TelegramAPIEndpoint, cfg.ChatID,
		cfg.IllustrationsDir, cfg.TelegramTimeout, observability.NewDiscardLogger())
	if err != nil {
		r.fail("%v", err)
		return r
	}
	if _, err := m.Authorize(ctx); err != nil {
		r.fail("%v", err)
	}
	return r
}

func report(w io.Writer, results []*checkResult) bool {
	failed := 0
	for _, r := range results {
		status := "PASS"
		if !r.ok() {
			status = fmt.Sprintf("FAIL (%d errors)", len(r.problems))
			failed++
		}
		fmt.Fprintf(w, "  %-42s %s\n", r.title, status)
	}

	for _, r := range results {
		if r.ok() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", r.title)
		for _, p := range r.problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return failed == 0
}
