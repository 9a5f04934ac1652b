package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const oembedEndpoint = "https://www.youtube.com/oembed"

// FetchTitle resolves a video title through the oEmbed endpoint, which works
// without an API key and is rarely gated.
func (c *Client) FetchTitle(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")

	raw, err := c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, oembedEndpoint+"?"+q.Encode(), nil)
	})
	if err != nil {
		return "", fmt.Errorf("oembed fetch: %w", err)
	}

	var body struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("oembed response: %w", err)
	}
	if body.Title == "" {
		return "", fmt.Errorf("oembed response missing title")
	}
	return body.Title, nil
}
