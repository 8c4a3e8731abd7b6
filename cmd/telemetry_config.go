/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/veritas/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage Veritas's anonymous telemetry settings.

Telemetry is off until you enable it, and events are only sent when
telemetry.apiKey is configured. Events carry the command name and whether a
lane succeeded; submitted text and results are never sent.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}

		out := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(out, map[string]any{
				"enabled":     prefs.Enabled,
				"anonymousId": prefs.AnonymousID,
				"apiKeySet":   GetConfig().Telemetry.APIKey != "",
			})
		}
		if prefs.Enabled {
			fmt.Fprintln(out, "📊 Telemetry: enabled")
			fmt.Fprintf(out, "   Anonymous ID: %s\n", prefs.AnonymousID)
			if GetConfig().Telemetry.APIKey == "" {
				fmt.Fprintln(out, "   No telemetry.apiKey configured, so nothing is sent.")
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "   To disable: veritas config telemetry disable")
		} else {
			fmt.Fprintln(out, "📊 Telemetry: disabled")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "   To enable: veritas config telemetry enable")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTelemetry(true); err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Telemetry enabled. Thank you for helping improve Veritas!")
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTelemetry(false); err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Telemetry disabled.")
		return nil
	},
}

func setTelemetry(enabled bool) error {
	prefs, err := telemetry.Load()
	if err != nil {
		return err
	}
	prefs.Enabled = enabled
	return prefs.Save()
}

func init() {
	configCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
