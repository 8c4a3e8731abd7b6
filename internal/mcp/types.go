// Package mcp provides types and utilities for the MCP server.
package mcp

// VerifyNewsParams defines the parameters for the verify_news tool.
type VerifyNewsParams struct {
	// Text is the article or claim to classify. Required.
	Text string `json:"text"`
	// ClaimedSource is the publication the text claims to come from.
	// Blank means UNKNOWN, which disables the impersonation check.
	ClaimedSource string `json:"claimed_source,omitempty"`
}

// WebVerifyParams defines the parameters for the web_verify tool.
type WebVerifyParams struct {
	Text string `json:"text"`
}

// HistoryAction defines the valid actions for the history tool.
type HistoryAction string

const (
	HistoryActionList  HistoryAction = "list"
	HistoryActionShow  HistoryAction = "show"
	HistoryActionClear HistoryAction = "clear"
)

// IsValid checks if the action is a valid history action. Empty means list.
func (a HistoryAction) IsValid() bool {
	switch a {
	case "", HistoryActionList, HistoryActionShow, HistoryActionClear:
		return true
	}
	return false
}

// HistoryParams defines the parameters for the history tool.
type HistoryParams struct {
	// Action is one of: list (default), show, clear.
	Action HistoryAction `json:"action,omitempty"`
	// ID is a full entry ID or unique prefix. Required for: show
	ID string `json:"id,omitempty"`
}
