package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/veritas/models"
)

// Detector is the part of the detector the tools drive.
type Detector interface {
	Submit(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error)
	SubmitScrape(ctx context.Context, text string) (*models.ScrapeResult, error)
	ClearHistory(ctx context.Context) error
}

// HistoryReader looks up stored results.
type HistoryReader interface {
	Entries() []models.AnalysisResult
	Resolve(idOrPrefix string) (models.AnalysisResult, error)
}

// ToolResult is a tool's Markdown output. Error is set for failures the
// client should see and can correct.
type ToolResult struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Handlers implements the veritas MCP tools.
type Handlers struct {
	detector Detector
	history  HistoryReader
	now      func() time.Time
}

// NewHandlers wires the tools to a detector and its history.
func NewHandlers(d Detector, h HistoryReader) *Handlers {
	return &Handlers{detector: d, history: h, now: time.Now}
}

// VerifyNews runs the analyze lane.
func (h *Handlers) VerifyNews(ctx context.Context, params VerifyNewsParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Text) == "" {
		return &ToolResult{Error: FormatValidationError("text", "text is required")}, nil
	}
	result, err := h.detector.Submit(ctx, params.Text, params.ClaimedSource)
	if err != nil {
		return &ToolResult{Error: FormatError(err.Error())}, nil
	}
	return &ToolResult{Content: FormatAnalysis(result)}, nil
}

// WebVerify runs the scrape lane.
func (h *Handlers) WebVerify(ctx context.Context, params WebVerifyParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Text) == "" {
		return &ToolResult{Error: FormatValidationError("text", "text is required")}, nil
	}
	result, err := h.detector.SubmitScrape(ctx, params.Text)
	if err != nil {
		return &ToolResult{Error: FormatError(err.Error())}, nil
	}
	return &ToolResult{Content: FormatScrape(result)}, nil
}

// History lists, shows or clears past analyses.
func (h *Handlers) History(ctx context.Context, params HistoryParams) (*ToolResult, error) {
	if !params.Action.IsValid() {
		return &ToolResult{
			Error: FormatValidationError("action", fmt.Sprintf("invalid action %q, must be one of: list, show, clear", params.Action)),
		}, nil
	}

	switch params.Action {
	case HistoryActionShow:
		if strings.TrimSpace(params.ID) == "" {
			return &ToolResult{Error: FormatValidationError("id", "id is required for show")}, nil
		}
		entry, err := h.history.Resolve(params.ID)
		if err != nil {
			return &ToolResult{Error: FormatError(err.Error())}, nil
		}
		return &ToolResult{Content: FormatAnalysis(&entry)}, nil
	case HistoryActionClear:
		if err := h.detector.ClearHistory(ctx); err != nil {
			return nil, fmt.Errorf("clear history: %w", err)
		}
		return &ToolResult{Content: "History cleared."}, nil
	default:
		return &ToolResult{Content: FormatHistory(h.history.Entries(), h.now())}, nil
	}
}
