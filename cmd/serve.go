/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/veritas/internal/server"
	"github.com/josephgoksu/veritas/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the verification desk as a local JSON API",
	Long: `Start an HTTP server exposing the desk:

  GET    /api/state               current lanes, result and history
  POST   /api/analyze             {"text": "...", "claimedSource": "TECH"}
  POST   /api/scrape              {"text": "..."}
  GET    /api/history             past editions, newest first
  DELETE /api/history             clear past editions
  POST   /api/history/:id/select  make a past edition current
  GET    /api/headlines           headline ticker

Set server.allowedOrigins to let browser front ends call the API.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", defaultPort, "port to listen on")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := openDesk(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	telemetry.TrackCommand(d.telemetry, "serve")
	d.watchHistory(ctx)

	if !isVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := GetConfig()
	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, d.detector, d.client, d.logger.Named("server"))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Veritas API on http://localhost:%d (backend %s)\n", cfg.Server.Port, d.client.BaseURL())
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)

	var runErr error
	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "\nShutting down...")
	case runErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "server shutdown error: %v\n", err)
	}
	wg.Wait()
	return runErr
}
