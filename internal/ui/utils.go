package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// IsInteractive checks if stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStyledOutput reports whether f should receive ANSI-styled output.
func IsStyledOutput(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or fallback when it is not a terminal.
func TerminalWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// RelativeTime describes t relative to now ("5 minutes ago").
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return pluralUnit(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return pluralUnit(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return pluralUnit(int(d.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func pluralUnit(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Panel renders content in a bordered box with an optional title.
func Panel(title, content string, border lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if title != "" {
		content = StyleTitle.Render(title) + "\n" + content
	}
	return style.Render(content)
}

// RenderErrorPanel renders a panel with error styling (red border).
func RenderErrorPanel(title, content string) string {
	return Panel(title, content, ColorError)
}
