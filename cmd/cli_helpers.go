package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/veritas/internal/ui"
	"github.com/josephgoksu/veritas/models"
)

// errNoInput is returned when a command needs text and got none.
var errNoInput = errors.New("no text given: pass it as an argument or pipe it on stdin")

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// readInput joins args into the story text, or reads stdin when there are
// no args and stdin is not a terminal.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && ui.IsStyledOutput(f) {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errNoInput
	}
	return text, nil
}

// renderMarkdown writes a report, styled with glamour when w is a terminal.
func renderMarkdown(w io.Writer, markdown string) {
	if f, ok := w.(*os.File); ok && ui.IsStyledOutput(f) {
		fmt.Fprint(w, ui.GlamourMarkdown(markdown, ui.TerminalWidth(f, 80)))
		return
	}
	fmt.Fprint(w, ui.PlainMarkdown(markdown, 0))
}

// printStamp shows the verdict stamp above a report on terminals.
func printStamp(w io.Writer, label string, tone models.Tone) {
	if f, ok := w.(*os.File); ok && ui.IsStyledOutput(f) {
		fmt.Fprintln(w, ui.Stamp(label, tone))
	}
}

// withSpinner runs fn while a spinner draws on stderr, when stderr is a
// terminal and JSON output is off.
func withSpinner(cmd *cobra.Command, label string, fn func() error) error {
	errOut := cmd.ErrOrStderr()
	f, ok := errOut.(*os.File)
	if isJSON() || !ok || !ui.IsStyledOutput(f) {
		return fn()
	}
	s := ui.NewSpinner(errOut, label)
	s.Start()
	defer s.Stop()
	return fn()
}
