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

var analyzeSource string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Check a story for fake news, writing style and impersonation",
	Long: `Send a story to the verification backend and print its report.

The report shows the fake-news verdict, the predicted writing style and
whether the story impersonates the claimed source. Successful results are
added to the past editions history.

Text is taken from the arguments, or from stdin when none are given.`,
	Example: `  veritas analyze "Scientists discover revolutionary new energy source." --source TECH
  cat story.txt | veritas analyze --json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeSource, "source", "s", models.UnknownSource, "claimed source (UNKNOWN, POLITICS, WORLD NEWS, BUSINESS, TECH, ENTERTAINMENT or any name)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "analyze")
	logger.SetLastSubmission(telemetry.LaneAnalyze, text)

	var result *models.AnalysisResult
	err = withSpinner(cmd, "Analyzing story...", func() error {
		var submitErr error
		result, submitErr = d.detector.Submit(cmd.Context(), text, analyzeSource)
		return submitErr
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if result == nil {
		return errNoInput
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printStamp(cmd.OutOrStdout(), result.Label(), result.Tone())
	renderMarkdown(cmd.OutOrStdout(), ui.AnalysisMarkdown(*result))
	return nil
}
