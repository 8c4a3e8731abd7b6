/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/veritas/internal/logger"
	"github.com/josephgoksu/veritas/internal/telemetry"
	"github.com/josephgoksu/veritas/internal/ui"
	"github.com/josephgoksu/veritas/models"
)

var scrapeCmd = &cobra.Command{
	Use:     "scrape [text]",
	Aliases: []string{"web"},
	Short:   "Search the web for evidence about a claim",
	Long: `Ask the backend to search the web and fact-checkers for a claim.

Web results are shown once and never stored in history.`,
	Example: `  veritas scrape "The moon landing was staged"
  echo "claim" | veritas scrape --json`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "scrape")
	logger.SetLastSubmission(telemetry.LaneScrape, text)

	var result *models.ScrapeResult
	err = withSpinner(cmd, "Searching the web...", func() error {
		var submitErr error
		result, submitErr = d.detector.SubmitScrape(cmd.Context(), text)
		return submitErr
	})
	if err != nil {
		return fmt.Errorf("web verification failed: %w", err)
	}
	if result == nil {
		return errNoInput
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	badge := result.Badge()
	printStamp(cmd.OutOrStdout(), badge.Label, badge.Tone)
	renderMarkdown(cmd.OutOrStdout(), ui.ScrapeMarkdown(*result))
	return nil
}
