package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veritube/ytverifier/src/api/types"
	"github.com/veritube/ytverifier/src/youtube"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	mu      sync.Mutex
	calls   int
	video   *youtube.Video
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubSource) FetchTranscript(ctx context.Context, videoID string) (*youtube.Video, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.video, s.err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubChecker struct {
	claims  string
	results string
	err     error
}

func (s *stubChecker) ExtractClaims(context.Context, string, string) (string, error) {
	return s.claims, s.err
}

func (s *stubChecker) FactCheck(context.Context, string) (string, error) {
	return s.results, s.err
}

func testVideo() *youtube.Video {
	return &youtube.Video{
		ID:    "dQw4w9WgXcQ",
		Title: "A Video About Facts",
		Segments: []youtube.Segment{
			{Start: 0, Text: "the earth orbits the sun"},
			{Start: 5, Text: "in roughly 365 days"},
		},
	}
}

func newTestRouter(source TranscriptSource, checker ClaimChecker) *gin.Engine {
	return New(Deps{
		Source:       source,
		Checker:      checker,
		AIConfigured: checker != nil,
		Provider:     "gemini",
		CacheTTL:     time.Minute,
		RateLimit:    100,
		RateWindow:   time.Minute,
	})
}

func postCheck(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, types.CheckResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check-claims", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp types.CheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return w, resp
}

func TestCheckClaimsHappyPath(t *testing.T) {
	source := &stubSource{video: testVideo()}
	checker := &stubChecker{
		claims:  "1. The Earth orbits the Sun\n2. A year is roughly 365 days",
		results: "- Status: **TRUE**\n- Explanation: basic astronomy\n- Confidence: High",
	}
	r := newTestRouter(source, checker)

	w, resp := postCheck(t, r, `{"video_url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Fatalf("want success, got %+v", resp)
	}
	if resp.VideoTitle != "A Video About Facts" {
		t.Fatalf("title = %q", resp.VideoTitle)
	}
	if resp.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("url = %q", resp.VideoURL)
	}
	if resp.TranscriptLength == 0 {
		t.Fatal("transcript_length missing")
	}
	if !strings.Contains(resp.Claims, "Earth orbits") || !strings.Contains(resp.FactCheckResults, "TRUE") {
		t.Fatalf("result regions not populated: %+v", resp)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}

func TestCheckClaimsSanitizesModelOutput(t *testing.T) {
	source := &stubSource{video: testVideo()}
	checker := &stubChecker{
		claims:  `1. Claim <script>alert("x")</script> text`,
		results: `- Status: TRUE <img src=x onerror=alert(1)>`,
	}
	r := newTestRouter(source, checker)

	_, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if strings.Contains(resp.Claims, "<script>") {
		t.Fatalf("script tag survived sanitization: %q", resp.Claims)
	}
	if strings.Contains(resp.FactCheckResults, "<img") {
		t.Fatalf("img tag survived sanitization: %q", resp.FactCheckResults)
	}
}

func TestCheckClaimsEmptyURL(t *testing.T) {
	source := &stubSource{video: testVideo()}
	r := newTestRouter(source, &stubChecker{claims: "x", results: "y"})

	for _, body := range []string{`{}`, `{"video_url":""}`, `not json`} {
		w, resp := postCheck(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, w.Code)
		}
		if resp.Success {
			t.Fatalf("body %q: want failure", body)
		}
	}
	if source.callCount() != 0 {
		t.Fatalf("empty input must never reach the pipeline, got %d calls", source.callCount())
	}
}

func TestCheckClaimsInvalidURL(t *testing.T) {
	source := &stubSource{video: testVideo()}
	r := newTestRouter(source, &stubChecker{claims: "x", results: "y"})

	w, resp := postCheck(t, r, `{"video_url":"https://example.com/not-youtube"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Error != "Invalid YouTube URL" {
		t.Fatalf("error = %q", resp.Error)
	}
	if source.callCount() != 0 {
		t.Fatal("invalid URL must never reach the pipeline")
	}
}

func TestCheckClaimsWithoutAIBackend(t *testing.T) {
	r := newTestRouter(&stubSource{video: testVideo()}, nil)
	w, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(resp.Error, "not configured") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestCheckClaimsTranscriptFailure(t *testing.T) {
	source := &stubSource{err: errors.New("no caption tracks available")}
	r := newTestRouter(source, &stubChecker{claims: "x", results: "y"})

	w, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Success {
		t.Fatal("want failure response")
	}
	if resp.Claims != "" || resp.FactCheckResults != "" {
		t.Fatalf("failure must not carry partial results: %+v", resp)
	}
}

func TestCheckClaimsAIFailure(t *testing.T) {
	source := &stubSource{video: testVideo()}
	r := newTestRouter(source, &stubChecker{err: errors.New("quota exceeded")})

	w, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Success || resp.Claims != "" {
		t.Fatalf("failure must not carry partial results: %+v", resp)
	}
}

func TestCheckClaimsAIRateLimited(t *testing.T) {
	source := &stubSource{video: testVideo()}
	r := newTestRouter(source, &stubChecker{err: errors.New("gemini: RESOURCE_EXHAUSTED")})

	w, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 for provider quota errors", w.Code)
	}
	if resp.Success {
		t.Fatal("want failure response")
	}
	if !strings.Contains(resp.Error, "try again later") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestCheckClaimsInflightGuard(t *testing.T) {
	source := &stubSource{
		video:   testVideo(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := newTestRouter(source, &stubChecker{claims: "x", results: "y"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		w, _ := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
		if w.Code != http.StatusOK {
			t.Errorf("first request status = %d", w.Code)
		}
	}()

	<-source.started
	w, resp := postCheck(t, r, `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("concurrent duplicate should be rejected, status = %d", w.Code)
	}
	if !strings.Contains(resp.Error, "already running") {
		t.Fatalf("error = %q", resp.Error)
	}

	close(source.release)
	<-done
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&stubSource{video: testVideo()}, &stubChecker{claims: "x", results: "y"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Status           string `json:"status"`
		GeminiConfigured bool   `json:"gemini_configured"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Status != "healthy" || !body.GeminiConfigured {
		t.Fatalf("body = %+v", body)
	}
}

func TestReportsUnavailableWithoutDB(t *testing.T) {
	r := newTestRouter(&stubSource{video: testVideo()}, &stubChecker{claims: "x", results: "y"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIndexServesPage(t *testing.T) {
	r := newTestRouter(&stubSource{video: testVideo()}, &stubChecker{claims: "x", results: "y"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "check-claims") {
		t.Fatal("page does not reference the check endpoint")
	}
}
