/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/josephgoksu/veritas/internal/logger"
	"github.com/josephgoksu/veritas/internal/telemetry"
	"github.com/josephgoksu/veritas/internal/ui"
	"github.com/josephgoksu/veritas/models"
)

var checkSource string

// checkReport is the JSON shape of `veritas check`.
type checkReport struct {
	Analysis      *models.AnalysisResult `json:"analysis"`
	AnalysisError string                 `json:"analysisError,omitempty"`
	Scrape        *models.ScrapeResult   `json:"scrape"`
	ScrapeError   string                 `json:"scrapeError,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Run the analysis and the web search together",
	Long: `Run both lanes for the same story at once and print both reports.

A failure in one lane does not stop the other.`,
	Example: `  veritas check "Scientists discover revolutionary new energy source." --source TECH`,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkSource, "source", "s", models.UnknownSource, "claimed source")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "check")
	logger.SetLastSubmission("check", text)

	ctx := cmd.Context()
	var (
		report     checkReport
		analyzeErr error
		scrapeErr  error
	)
	// A plain Group: one lane failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		report.Analysis, analyzeErr = d.detector.Submit(ctx, text, checkSource)
		return analyzeErr
	})
	g.Go(func() error {
		report.Scrape, scrapeErr = d.detector.SubmitScrape(ctx, text)
		return scrapeErr
	})
	_ = withSpinner(cmd, "Checking story...", g.Wait)

	state := d.detector.State()
	if analyzeErr != nil {
		report.AnalysisError = state.Error
	}
	if scrapeErr != nil {
		report.ScrapeError = state.ScrapeError
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		if err := printJSON(out, report); err != nil {
			return err
		}
	} else {
		if report.Analysis != nil {
			renderMarkdown(out, ui.AnalysisMarkdown(*report.Analysis))
		} else if report.AnalysisError != "" {
			fmt.Fprintln(out, ui.StyleError.Render("✗ Analysis failed: "+report.AnalysisError))
		}
		fmt.Fprintln(out)
		if report.Scrape != nil {
			renderMarkdown(out, ui.ScrapeMarkdown(*report.Scrape))
		} else if report.ScrapeError != "" {
			fmt.Fprintln(out, ui.StyleError.Render("✗ Web verification failed: "+report.ScrapeError))
		}
	}

	if analyzeErr != nil || scrapeErr != nil {
		return errors.Join(laneErr("analysis", analyzeErr), laneErr("web verification", scrapeErr))
	}
	return nil
}

func laneErr(lane string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", lane, err)
}
