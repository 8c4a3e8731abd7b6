package models

import "time"

// Web verification verdicts. The earlier backend contract reports one of the
// Summary* values; the later one reports Verdict* with a confidence.
const (
	SummarySupported  = "SUPPORTED"
	SummaryDisputed   = "DISPUTED"
	SummaryMixed      = "MIXED"
	VerdictReal       = "REAL"
	VerdictFake       = "FAKE"
	VerdictUnverified = "UNVERIFIED"
)

// ScrapeContract identifies which response shape the backend returned.
type ScrapeContract string

const (
	// ContractSummary is the original shape: sources plus a summary verdict.
	ContractSummary ScrapeContract = "summary"
	// ContractVerdict adds fact checks, confidence, explanation and providers.
	ContractVerdict ScrapeContract = "verdict"
)

// ScrapeSource is one web page the backend cited.
type ScrapeSource struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	Domain     string `json:"domain"`
	SourceName string `json:"sourceName,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// FactCheck is one published fact-check matching the claim.
type FactCheck struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Publisher string `json:"publisher,omitempty"`
	Rating    string `json:"rating,omitempty"`
	ClaimText string `json:"claimText,omitempty"`
}

// ScrapeResult is one web-evidence outcome. It is never persisted.
// Sources and FactChecks keep the backend's order.
type ScrapeResult struct {
	Contract      ScrapeContract `json:"contract"`
	QueryUsed     string         `json:"queryUsed"`
	SourcesFound  int            `json:"sourcesFound"`
	Sources       []ScrapeSource `json:"sources"`
	FactChecks    []FactCheck    `json:"factChecks"`
	Verdict       string         `json:"verdict"`
	Confidence    float64        `json:"confidence"`
	Explanation   string         `json:"explanation,omitempty"`
	ProvidersUsed []string       `json:"providersUsed"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Badge describes how a web verdict is shown.
type Badge struct {
	Label string
	Tone  Tone
}

var verdictBadges = map[string]Badge{
	SummarySupported:  {Label: "✓ SUPPORTED", Tone: TonePositive},
	SummaryDisputed:   {Label: "✗ DISPUTED", Tone: ToneNegative},
	SummaryMixed:      {Label: "⚠ MIXED", Tone: ToneUncertain},
	VerdictReal:       {Label: "✓ REAL", Tone: TonePositive},
	VerdictFake:       {Label: "✗ FAKE", Tone: ToneNegative},
	VerdictUnverified: {Label: "? UNVERIFIED", Tone: ToneUncertain},
}

// VerdictBadge returns the badge for a verdict; unrecognized values render
// as UNVERIFIED.
func VerdictBadge(verdict string) Badge {
	if b, ok := verdictBadges[verdict]; ok {
		return b
	}
	return verdictBadges[VerdictUnverified]
}

// Badge returns the display badge for this result's verdict.
func (r ScrapeResult) Badge() Badge {
	return VerdictBadge(r.Verdict)
}
