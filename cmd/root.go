/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/veritas/internal/config"
	"github.com/josephgoksu/veritas/internal/logger"
	"github.com/josephgoksu/veritas/internal/ui"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - fake news verification desk",
	Long: `Veritas checks news stories against a verification backend.

Paste a story to get a fake-news verdict, a writing-style analysis and an
impersonation check, or search the web for evidence about a claim. The last
ten analyses are kept as "past editions".

Run without arguments to open the interactive desk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		logger.SetCrashDir(config.GetCrashLogDir())
		logger.SetVersion(version)
		logger.SetCommand(cmd.CommandPath())
		logger.SetBackend(GetConfig().API.BaseURL)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return cmd.Help()
		}
		return runDesk(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceErrors = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// printError shows err in a panel on terminals and as a plain line otherwise.
func printError(w io.Writer, err error) {
	if f, ok := w.(*os.File); ok && ui.IsStyledOutput(f) {
		fmt.Fprintln(w, ui.RenderErrorPanel("Error", err.Error()))
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.veritas/config.yaml, then ./.veritas.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("api-url", "", fmt.Sprintf("verification backend URL (default %s)", defaultBaseURL))
	rootCmd.PersistentFlags().Bool("json", false, "output as JSON")

	bindFlags()
}

// bindFlags binds persistent flags to Viper.
func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.baseURL", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
