package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"strings"
)

// pickTrack selects the best caption track: a manually authored track in a
// preferred language wins over auto-generated (asr), which wins over
// whatever is first.
func pickTrack(tracks []captionTrack, languages []string) captionTrack {
	for _, lang := range languages {
		for _, t := range tracks {
			if strings.EqualFold(t.LanguageCode, lang) && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range languages {
		for _, t := range tracks {
			if strings.EqualFold(t.LanguageCode, lang) {
				return t
			}
		}
	}
	return tracks[0]
}

// fetchCaptions downloads a caption track, preferring the json3 format, and
// falls back to the legacy timedtext XML the track URL serves by default.
func (c *Client) fetchCaptions(ctx context.Context, baseURL string) ([]Segment, error) {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}

	raw, err := c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, baseURL+sep+"fmt=json3", nil)
	})
	if err == nil {
		if segments, perr := parseJSON3(raw); perr == nil && len(segments) > 0 {
			return segments, nil
		}
	}

	raw, err = c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("caption track fetch: %w", err)
	}
	return parseTimedText(raw)
}

type json3Body struct {
	Events []struct {
		TStartMs    float64 `json:"tStartMs"`
		DDurationMs float64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseJSON3(raw []byte) ([]Segment, error) {
	var body json3Body
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("json3 captions: %w", err)
	}

	var segments []Segment
	for _, ev := range body.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := cleanCueText(sb.String())
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: ev.TStartMs / 1000,
			Dur:   ev.DDurationMs / 1000,
			Text:  text,
		})
	}
	return segments, nil
}

type timedTextBody struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(raw []byte) ([]Segment, error) {
	var body timedTextBody
	if err := xml.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("timedtext captions: %w", err)
	}

	var segments []Segment
	for _, t := range body.Texts {
		text := cleanCueText(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Start: t.Start, Dur: t.Dur, Text: text})
	}
	return segments, nil
}

// cleanCueText normalizes a cue the way subtitle files get flattened: newlines
// become spaces and runs of whitespace collapse.
func cleanCueText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PlainText flattens segments into one space-separated string.
func PlainText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
