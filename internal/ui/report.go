package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/josephgoksu/veritas/internal/util"
	"github.com/josephgoksu/veritas/internal/utils"
	"github.com/josephgoksu/veritas/models"
)

// MarkdownRenderer turns report Markdown into terminal output.
type MarkdownRenderer func(markdown string, width int) string

// PlainMarkdown returns the Markdown unchanged, for pipes and tests.
func PlainMarkdown(markdown string, _ int) string {
	return markdown
}

// GlamourMarkdown renders Markdown with glamour, falling back to the raw text.
func GlamourMarkdown(markdown string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// AnalysisMarkdown is the verification report for one analysis.
func AnalysisMarkdown(r models.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString("# Verification Report\n\n")
	sb.WriteString(fmt.Sprintf("## %s\n\n", r.DisplayTitle()))
	sb.WriteString(fmt.Sprintf("**Verdict: %s %s**\n\n", toneMark(r.Tone()), r.Label()))

	sb.WriteString("| Check | Result | Confidence |\n")
	sb.WriteString("|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Fake news analysis | %s | %s |\n", r.Label(), confidence(r.FakeNews.Confidence)))
	sb.WriteString(fmt.Sprintf("| Style analysis | %s | %s |\n", orUnknown(r.StyleAnalysis.PredictedSource), confidence(r.StyleAnalysis.Confidence)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Claimed source: `%s`\n\n", orUnknown(r.ClaimedSource)))
	if r.ImpersonationDetected {
		sb.WriteString("**✗ Impersonation detected**\n\n")
	} else {
		sb.WriteString("✓ No impersonation\n\n")
	}

	if content := strings.TrimSpace(r.Content); content != "" {
		sb.WriteString("### Submitted article\n\n")
		sb.WriteString("> " + strings.ReplaceAll(utils.Truncate(content, 600), "\n", "\n> ") + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("_ID %s", util.ShortID(r.ID, 0)))
	if !r.Timestamp.IsZero() {
		sb.WriteString(" · " + r.Timestamp.Local().Format(time.Kitchen))
	}
	sb.WriteString("_\n")
	return sb.String()
}

// ScrapeMarkdown is the web investigation report.
func ScrapeMarkdown(r models.ScrapeResult) string {
	var sb strings.Builder

	badge := r.Badge()
	sb.WriteString("# Web Investigation Report\n\n")
	sb.WriteString(fmt.Sprintf("**%s**\n\n", badge.Label))

	if r.Contract == models.ContractVerdict {
		sb.WriteString(fmt.Sprintf("Confidence: %s\n\n", confidence(r.Confidence)))
		if r.Explanation != "" {
			sb.WriteString(r.Explanation + "\n\n")
		}
	}

	noun := "sources"
	if r.SourcesFound == 1 {
		noun = "source"
	}
	sb.WriteString(fmt.Sprintf("Found **%d** %s discussing this claim.\n\n", r.SourcesFound, noun))
	if r.QueryUsed != "" {
		sb.WriteString(fmt.Sprintf("Query: _\"%s\"_\n\n", r.QueryUsed))
	}

	if len(r.FactChecks) > 0 {
		sb.WriteString("## Fact Checks\n\n")
		for _, fc := range r.FactChecks {
			sb.WriteString(fmt.Sprintf("- [%s](%s)", fc.Title, fc.URL))
			if fc.Publisher != "" {
				sb.WriteString(" (" + fc.Publisher + ")")
			}
			if fc.Rating != "" {
				sb.WriteString(": **" + fc.Rating + "**")
			}
			sb.WriteString("\n")
			if fc.ClaimText != "" {
				sb.WriteString("  > " + fc.ClaimText + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Sources) == 0 {
		sb.WriteString("_No web sources found for this claim._\n")
	} else {
		sb.WriteString("## Sources Found\n\n")
		for _, s := range r.Sources {
			sb.WriteString(fmt.Sprintf("- `%s` [%s](%s)\n", s.Domain, s.Title, s.URL))
			if s.Snippet != "" {
				sb.WriteString("  " + s.Snippet + "\n")
			}
		}
	}

	if len(r.ProvidersUsed) > 0 {
		sb.WriteString(fmt.Sprintf("\n_Providers: %s_\n", strings.Join(r.ProvidersUsed, ", ")))
	}
	return sb.String()
}

// HistoryMarkdown lists past editions, newest first.
func HistoryMarkdown(entries []models.AnalysisResult, now time.Time) string {
	if len(entries) == 0 {
		return "_No stories checked yet._\n"
	}

	var sb strings.Builder
	sb.WriteString("# Past Editions\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. **#%d** %s %s `%s` · %s · %s\n",
			i+1, len(entries)-i, toneMark(e.Tone()), utils.Truncate(e.DisplayTitle(), 70),
			e.Label(), RelativeTime(e.Timestamp, now), util.ShortID(e.ID, 0)))
	}
	return sb.String()
}

// HeadlinesMarkdown renders the ticker as a list.
func HeadlinesMarkdown(headlines []models.Headline, live bool) string {
	var sb strings.Builder
	sb.WriteString("# Latest Headlines\n\n")
	for _, h := range headlines {
		sb.WriteString(fmt.Sprintf("- **%s** %s", h.Category, h.Headline))
		if h.TimeAgo != "" {
			sb.WriteString(" _" + h.TimeAgo + "_")
		}
		sb.WriteString("\n")
	}
	if !live {
		sb.WriteString("\n_Live feed unavailable; showing sample headlines._\n")
	}
	return sb.String()
}

func toneMark(t models.Tone) string {
	switch t {
	case models.ToneNegative:
		return "✗"
	case models.TonePositive:
		return "✓"
	default:
		return "⚠"
	}
}

// confidence prints the backend value as given.
func confidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownSource
	}
	return s
}
