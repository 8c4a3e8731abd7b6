/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/veritas/internal/telemetry"
	"github.com/josephgoksu/veritas/internal/ui"
	"github.com/josephgoksu/veritas/models"
)

var historyForce bool

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"editions"},
	Short:   "List, show or clear past editions",
	Long: `Past editions are the last ten successful analyses, newest first.

Web verification results are never stored.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past editions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report of a past edition",
	Long:  `Show a past edition by its ID or a unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all past editions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyClearCmd.Flags().BoolVarP(&historyForce, "force", "f", false, "clear without confirmation")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	entries := d.history.Entries()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	renderMarkdown(cmd.OutOrStdout(), ui.HistoryMarkdown(entries, time.Now()))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	entry, err := d.history.Resolve(args[0])
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), entry)
	}
	renderMarkdown(cmd.OutOrStdout(), ui.AnalysisMarkdown(entry))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	d, err := openDesk(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	n := d.history.Len()
	if n == 0 {
		if !isJSON() {
			fmt.Fprintln(cmd.OutOrStdout(), "No past editions to clear.")
		}
		return nil
	}

	if !historyForce && !isJSON() {
		if !confirm(cmd, fmt.Sprintf("Clear %d past %s? [y/N]: ", n, pluralize(n, "edition", "editions"))) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := d.detector.ClearHistory(cmd.Context()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	d.telemetry.Track(telemetry.EventHistoryCleared, telemetry.Properties{"entries": n})

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"cleared": n, "history": []models.AnalysisResult{}})
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render(fmt.Sprintf("✓ Cleared %d past %s.", n, pluralize(n, "edition", "editions"))))
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
