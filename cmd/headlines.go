/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/veritas/internal/api"
	"github.com/josephgoksu/veritas/internal/ui"
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show the latest headlines from the backend",
	Long: `Fetch the headline ticker. When the feed is unavailable a fixed set of
sample headlines is shown instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := api.New(cfg.API.BaseURL,
			api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))

		headlines, live := client.Ticker(cmd.Context())
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), map[string]any{"headlines": headlines, "live": live})
		}
		renderMarkdown(cmd.OutOrStdout(), ui.HeadlinesMarkdown(headlines, live))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headlinesCmd)
}
