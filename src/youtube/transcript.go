package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/veritube/ytverifier/src/webclient"
)

const (
	playerEndpoint = "https://www.youtube.com/youtubei/v1/player"

	// Transcripts shorter than this carry no checkable content.
	minTranscriptChars = 50

	defaultAttemptPause = 2 * time.Second
)

// Innertube client identities tried in order. Mobile clients are first
// because they are the least likely to be gated behind consent or bot walls
// when running from a server address.
var innertubeClients = []innertubeIdentity{
	{
		Name:      "ANDROID",
		Version:   "19.09.37",
		UserAgent: "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip",
	},
	{
		Name:      "IOS",
		Version:   "19.09.3",
		UserAgent: "com.google.ios.youtube/19.09.3 (iPhone14,3; U; CPU iOS 15_6 like Mac OS X)",
	},
}

type innertubeIdentity struct {
	Name      string
	Version   string
	UserAgent string
}

// Video is a fetched transcript together with the video's title.
type Video struct {
	ID       string
	Title    string
	Segments []Segment
}

// Segment is a single caption cue.
type Segment struct {
	Start float64
	Dur   float64
	Text  string
}

// Client fetches transcripts and metadata from YouTube. All outbound calls
// run through a circuit breaker so a blocked or rate-limited server address
// fails fast instead of hammering the endpoint.
type Client struct {
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	languages []string
	pause     time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithLanguages sets the preferred caption languages in priority order.
func WithLanguages(langs []string) Option {
	return func(c *Client) {
		if len(langs) > 0 {
			c.languages = langs
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAttemptPause sets the delay between fallback attempts.
func WithAttemptPause(d time.Duration) Option {
	return func(c *Client) { c.pause = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      webclient.NewDefault(30 * time.Second),
		languages: []string{"en", "en-US", "en-GB"},
		pause:     defaultAttemptPause,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "youtube",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTranscript retrieves the caption transcript and title for a video,
// walking the client identity list until one yields usable text.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (*Video, error) {
	var lastErr error

	for i := 0; i <= len(innertubeClients); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pause):
			}
		}

		var (
			pr  *playerResponse
			err error
		)
		if i < len(innertubeClients) {
			ident := innertubeClients[i]
			logrus.Debugf("youtube: trying %s player client for %s", ident.Name, videoID)
			pr, err = c.playerResponse(ctx, videoID, ident)
		} else {
			// Last resort: scrape the watch page like a browser would.
			logrus.Debugf("youtube: falling back to watch page scrape for %s", videoID)
			pr, err = c.watchPagePlayerResponse(ctx, videoID)
		}
		if err != nil {
			lastErr = err
			continue
		}

		video, err := c.transcriptFromPlayerResponse(ctx, videoID, pr)
		if err != nil {
			lastErr = err
			continue
		}
		return video, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no usable transcript for %s: %w", videoID, lastErr)
	}
	return nil, fmt.Errorf("no usable transcript for %s", videoID)
}

func (c *Client) transcriptFromPlayerResponse(ctx context.Context, videoID string, pr *playerResponse) (*Video, error) {
	if s := pr.PlayabilityStatus.Status; s != "" && s != "OK" {
		return nil, fmt.Errorf("video not playable: %s (%s)", s, pr.PlayabilityStatus.Reason)
	}

	tracks := pr.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks available")
	}

	track := pickTrack(tracks, c.languages)
	segments, err := c.fetchCaptions(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	if len(PlainText(segments)) < minTranscriptChars {
		return nil, fmt.Errorf("transcript too short to analyze")
	}

	title := pr.VideoDetails.Title
	if title == "" {
		// Metadata can be missing from mobile player responses.
		if t, err := c.FetchTitle(ctx, videoID); err == nil {
			title = t
		} else {
			title = "Unknown Video"
		}
	}

	return &Video{ID: videoID, Title: title, Segments: segments}, nil
}

func (c *Client) playerResponse(ctx context.Context, videoID string, ident innertubeIdentity) (*playerResponse, error) {
	payload := map[string]interface{}{
		"videoId": videoID,
		"context": map[string]interface{}{
			"client": map[string]interface{}{
				"clientName":    ident.Name,
				"clientVersion": ident.Version,
				"hl":            "en",
				"gl":            "US",
			},
		},
	}
	bodyBytes, _ := json.Marshal(payload)

	raw, err := c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, playerEndpoint+"?prettyPrint=false", bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ident.UserAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s player request: %w", ident.Name, err)
	}

	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("%s player response: %w", ident.Name, err)
	}
	return &pr, nil
}

// do executes one HTTP request through the circuit breaker with retry on
// transient upstream failures.
func (c *Client) do(ctx context.Context, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		status, body, err := webclient.DoWithRetry(ctx, 2, time.Second, func() (int, []byte, error) {
			req, err := build(ctx)
			if err != nil {
				return 0, nil, err
			}
			webclient.SetDefaultHeaders(req)
			resp, err := c.http.Do(req)
			if err != nil {
				return 0, nil, err
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return resp.StatusCode, nil, err
			}
			if resp.StatusCode != http.StatusOK {
				return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
			}
			return resp.StatusCode, b, nil
		})
		if err != nil {
			return nil, fmt.Errorf("youtube request failed (status %d): %w", status, err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID string `json:"videoId"`
		Title   string `json:"title"`
		Author  string `json:"author"`
	} `json:"videoDetails"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}
