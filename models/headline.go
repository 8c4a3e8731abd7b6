package models

// Headline is one entry of the headlines ticker.
type Headline struct {
	Headline    string `json:"headline"`
	Category    string `json:"category"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	TimeAgo     string `json:"timeAgo,omitempty"`
	Image       string `json:"image,omitempty"`
}

// FallbackHeadlines are shown when the headlines feed fails or is empty.
var FallbackHeadlines = []Headline{
	{Headline: "Local Community Rallies for Literacy Program", Category: "LOCAL", TimeAgo: "2 hours ago"},
	{Headline: "Tech Innovation Summit Announces Breakthrough", Category: "TECH", TimeAgo: "4 hours ago"},
	{Headline: "Environmental Policy Changes Take Effect", Category: "WORLD", TimeAgo: "6 hours ago"},
	{Headline: "Markets Show Steady Growth in Q4", Category: "BUSINESS", TimeAgo: "8 hours ago"},
	{Headline: "City Council Approves New Public Transit Plan", Category: "POLITICS", TimeAgo: "10 hours ago"},
}
