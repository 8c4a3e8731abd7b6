package cmd

import (
	"github.com/spf13/cobra"

	"github.com/josephgoksu/veritas/internal/telemetry"
	"github.com/josephgoksu/veritas/internal/ui"
)

// runDesk opens the interactive desk.
func runDesk(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openDesk(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "desk")
	d.watchHistory(ctx)

	return ui.RunApp(ctx, d.detector, d.detector, d.client)
}
