package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/josephgoksu/veritas/models"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Headlines fetches the ticker feed.
func (c *Client) Headlines(ctx context.Context) ([]models.Headline, error) {
	resp, err := c.do(ctx, http.MethodGet, headlinesPath, nil)
	if err != nil {
		return nil, newTransportError(KindHeadlines, err)
	}
	if !resp.ok() {
		return nil, newStatusError(KindHeadlines, resp, "headlines request failed")
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, newDecodeError(KindHeadlines, errors.New("body is not valid JSON"))
	}

	var out []models.Headline
	for _, h := range gjson.GetBytes(resp.body, "headlines").Array() {
		headline := c.plain(stringOr(h.Get("headline"), ""))
		if headline == "" {
			continue
		}
		out = append(out, models.Headline{
			Headline:    headline,
			Category:    stringOr(h.Get("category"), ""),
			URL:         stringOr(h.Get("url"), ""),
			Source:      stringOr(h.Get("source"), ""),
			PublishedAt: stringOr(h.Get("published_at"), ""),
			TimeAgo:     stringOr(h.Get("time_ago"), ""),
			Image:       stringOr(h.Get("image"), ""),
		})
	}
	return out, nil
}

// Ticker returns live headlines, or the static fallback list when the feed
// fails or is empty. live reports which one was returned.
func (c *Client) Ticker(ctx context.Context) (headlines []models.Headline, live bool) {
	items, err := c.Headlines(ctx)
	if err != nil {
		c.logger.Debug("headlines unavailable, using fallback", zap.Error(err))
	}
	if len(items) == 0 {
		fallback := make([]models.Headline, len(models.FallbackHeadlines))
		copy(fallback, models.FallbackHeadlines)
		return fallback, false
	}
	return items, true
}
