package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/veritas/models"
)

var (
	// Newsprint palette
	ColorInk       = lipgloss.Color("252") // Body text
	ColorFaded     = lipgloss.Color("243") // Captions, timestamps
	ColorRule      = lipgloss.Color("238") // Borders and rules
	ColorMasthead  = lipgloss.Color("230") // Cream headline
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorHighlight = lipgloss.Color("69")  // Selected row

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorFaded)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorInk)

	StyleMasthead = lipgloss.NewStyle().
			Foreground(ColorMasthead).
			Bold(true).
			Align(lipgloss.Center)

	StyleDateline = lipgloss.NewStyle().
			Foreground(ColorFaded).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderTop(true).
			BorderBottom(true).
			BorderForeground(ColorRule)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorInk).
				Bold(true).
				Underline(true)

	// Input Box Style for textarea border
	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorRule).
			Padding(0, 1)

	StyleFocusedBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorInk).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	// Stamp is the rubber-stamp verdict box.
	StyleStamp = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			Padding(0, 2).
			Bold(true)
)

// ToneColor maps a verdict tone to its color.
func ToneColor(t models.Tone) lipgloss.Color {
	switch t {
	case models.ToneNegative:
		return ColorError
	case models.TonePositive:
		return ColorSuccess
	default:
		return ColorWarning
	}
}

// ToneStyle returns the foreground style for a verdict tone.
func ToneStyle(t models.Tone) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ToneColor(t)).Bold(true)
}

// Stamp renders a verdict label as a colored stamp.
func Stamp(label string, t models.Tone) string {
	c := ToneColor(t)
	return StyleStamp.BorderForeground(c).Foreground(c).Render(label)
}
