package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// rewriteTransport sends every request to the test server regardless of the
// host the client dialed, so the production endpoint URLs stay untouched.
type rewriteTransport struct {
	server *httptest.Server
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	u, err := url.Parse(t.server.URL)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = u.Scheme
	req.URL.Host = u.Host
	return http.DefaultTransport.RoundTrip(req)
}

func playerResponseJSON(captionURL string) string {
	return fmt.Sprintf(`{
		"playabilityStatus": {"status": "OK"},
		"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Test Video"},
		"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
			{"baseUrl": %q, "languageCode": "en"}
		]}}
	}`, captionURL)
}

func json3Captions(text string) string {
	return fmt.Sprintf(`{"events":[{"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":%q}]}]}`, text)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithHTTPClient(&http.Client{Transport: rewriteTransport{server: srv}}),
		WithAttemptPause(time.Millisecond),
	)
}

func TestFetchTranscriptRejectsShortTranscript(t *testing.T) {
	captionURL := "https://www.youtube.com/api/timedtext?v=dQw4w9WgXcQ&lang=en"

	mux := http.NewServeMux()
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, playerResponseJSON(captionURL))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, json3Captions("too short"))
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><script>var ytInitialPlayerResponse = %s;</script></body></html>`,
			playerResponseJSON(captionURL))
	})

	c := newTestClient(t, mux)
	_, err := c.FetchTranscript(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("want error for sub-minimum transcript")
	}
	if !strings.Contains(err.Error(), "transcript too short to analyze") {
		t.Fatalf("want too-short error, got %v", err)
	}
}

func TestFetchTranscriptFallsBackToNextClient(t *testing.T) {
	captionURL := "https://www.youtube.com/api/timedtext?v=dQw4w9WgXcQ&lang=en"
	longText := strings.Repeat("every claim in this video is checked against sources. ", 3)

	var playerAgents []string
	mux := http.NewServeMux()
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		playerAgents = append(playerAgents, ua)
		if strings.Contains(ua, "android") {
			// Bot wall: the Android client gets turned away, the next one must be tried.
			fmt.Fprint(w, `{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in to confirm you are not a bot"}}`)
			return
		}
		fmt.Fprint(w, playerResponseJSON(captionURL))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, json3Captions(longText))
	})

	c := newTestClient(t, mux)
	video, err := c.FetchTranscript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchTranscript: %v", err)
	}
	if video.Title != "Test Video" {
		t.Fatalf("want title from player response, got %q", video.Title)
	}
	if got := PlainText(video.Segments); !strings.Contains(got, "every claim in this video") {
		t.Fatalf("unexpected transcript %q", got)
	}

	if len(playerAgents) != 2 {
		t.Fatalf("want 2 player attempts, got %d", len(playerAgents))
	}
	if !strings.Contains(playerAgents[0], "com.google.android.youtube") {
		t.Fatalf("first attempt should use the Android client, got %q", playerAgents[0])
	}
	if !strings.Contains(playerAgents[1], "com.google.ios.youtube") {
		t.Fatalf("second attempt should use the iOS client, got %q", playerAgents[1])
	}
}
