package cmd

import (
	"fmt"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the alert that would be sent today",
	Long: `Fetch today's forecast and compose the alert without posting it or
updating the stored temperature.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	reading, alert := a.pipeline.Preview(cmd.Context())
	out := cmd.OutOrStdout()

	if reading.IsUnknown() {
		fmt.Fprintln(out, "Forecast: unavailable")
		fmt.Fprintln(out, "Nothing would be sent.")
		return nil
	}

	fmt.Fprintf(out, "Forecast: %s°C, %s\n", domain.FormatCelsius(reading.Temperature), reading.Category)
	if !alert.Deliverable() {
		fmt.Fprintln(out, "Nothing would be sent.")
		return nil
	}
	fmt.Fprintf(out, "Illustration: %s\n", alert.Illustration)
	fmt.Fprintf(out, "Message: %s\n", alert.Text)
	return nil
}
