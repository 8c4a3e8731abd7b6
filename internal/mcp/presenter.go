package mcp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/veritas/internal/util"
	"github.com/josephgoksu/veritas/models"
)

// FormatAnalysis converts an AnalysisResult into compact Markdown.
func FormatAnalysis(r *models.AnalysisResult) string {
	if r == nil {
		return "No analysis available."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s %s\n", toneIcon(r.Tone()), r.DisplayTitle()))
	sb.WriteString(fmt.Sprintf("- **Verdict**: %s (confidence %s)\n", r.Label(), formatConfidence(r.FakeNews.Confidence)))
	sb.WriteString(fmt.Sprintf("- **Style**: %s (confidence %s)\n", orUnknown(r.StyleAnalysis.PredictedSource), formatConfidence(r.StyleAnalysis.Confidence)))
	sb.WriteString(fmt.Sprintf("- **Claimed source**: %s\n", orUnknown(r.ClaimedSource)))
	if r.ImpersonationDetected {
		sb.WriteString("- **Impersonation**: detected\n")
	} else {
		sb.WriteString("- **Impersonation**: none\n")
	}
	sb.WriteString(fmt.Sprintf("- **ID**: `%s`", util.ShortID(r.ID, 0)))
	return sb.String()
}

// FormatScrape converts a ScrapeResult into compact Markdown.
// Structure: verdict -> query -> fact checks -> sources
func FormatScrape(r *models.ScrapeResult) string {
	if r == nil {
		return "No web verification available."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Web verdict: %s\n", r.Badge().Label))
	if r.Contract == models.ContractVerdict {
		sb.WriteString(fmt.Sprintf("Confidence %s", formatConfidence(r.Confidence)))
		if len(r.ProvidersUsed) > 0 {
			sb.WriteString(" via " + strings.Join(r.ProvidersUsed, ", "))
		}
		sb.WriteString("\n")
		if r.Explanation != "" {
			sb.WriteString(r.Explanation + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("Found %d %s", r.SourcesFound, plural(r.SourcesFound, "source", "sources")))
	if r.QueryUsed != "" {
		sb.WriteString(fmt.Sprintf(" for query %q", r.QueryUsed))
	}
	sb.WriteString("\n")

	if len(r.FactChecks) > 0 {
		sb.WriteString("\n### Fact checks\n")
		for i, fc := range r.FactChecks {
			sb.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, fc.Title, fc.URL))
			if fc.Publisher != "" {
				sb.WriteString(" - " + fc.Publisher)
			}
			if fc.Rating != "" {
				sb.WriteString(fmt.Sprintf(" (rated **%s**)", fc.Rating))
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Sources) > 0 {
		sb.WriteString("\n### Sources\n")
		for i, s := range r.Sources {
			sb.WriteString(fmt.Sprintf("%d. [%s](%s) `%s`\n", i+1, s.Title, s.URL, s.Domain))
			if s.Snippet != "" {
				sb.WriteString("   " + truncate(s.Snippet, 160) + "\n")
			}
		}
	} else {
		sb.WriteString("\nNo web sources found for this claim.\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatHistory lists history entries, newest first, numbered by edition.
func FormatHistory(entries []models.AnalysisResult, now time.Time) string {
	if len(entries) == 0 {
		return "History is empty."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## History (%d)\n", len(entries)))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("- #%d `%s` %s **%s** %s",
			len(entries)-i, util.ShortID(e.ID, 0), toneIcon(e.Tone()), e.Label(), truncate(e.DisplayTitle(), 80)))
		if !e.Timestamp.IsZero() {
			sb.WriteString(" _" + relative(now.Sub(e.Timestamp)) + "_")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## ❌ Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## ❌ Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

func toneIcon(t models.Tone) string {
	switch t {
	case models.ToneNegative:
		return "✗"
	case models.TonePositive:
		return "✓"
	default:
		return "?"
	}
}

// formatConfidence prints the backend value unscaled.
func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownSource
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// truncate shortens a string to maxLen runes and adds ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func relative(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
