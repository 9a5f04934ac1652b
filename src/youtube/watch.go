package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// watchPagePlayerResponse scrapes ytInitialPlayerResponse out of the watch
// page HTML, the same data the player API returns.
func (c *Client) watchPagePlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	raw, err := c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, WatchURL(videoID), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Referer", "https://www.youtube.com/")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch page fetch: %w", err)
	}

	payload, err := extractPlayerResponseJSON(raw)
	if err != nil {
		return nil, err
	}

	var pr playerResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		return nil, fmt.Errorf("watch page player response: %w", err)
	}
	return &pr, nil
}

// extractPlayerResponseJSON finds the inline script defining
// ytInitialPlayerResponse and returns the balanced JSON object assigned to it.
func extractPlayerResponseJSON(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("watch page parse: %w", err)
	}

	const marker = "ytInitialPlayerResponse"
	var payload []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, marker)
		if idx < 0 {
			return true
		}
		start := strings.Index(text[idx:], "{")
		if start < 0 {
			return true
		}
		obj := balancedJSONObject(text[idx+start:])
		if obj == "" {
			return true
		}
		payload = []byte(obj)
		return false
	})

	if payload == nil {
		return nil, fmt.Errorf("ytInitialPlayerResponse not found in watch page")
	}
	return payload, nil
}

// balancedJSONObject returns the prefix of s that forms one complete JSON
// object, respecting strings and escapes.
func balancedJSONObject(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[:i+1]
				}
			}
		}
	}
	return ""
}
