package webserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/veritube/ytverifier/src/api/data"
	"github.com/veritube/ytverifier/src/api/types"
	"github.com/veritube/ytverifier/src/logging"
	"github.com/veritube/ytverifier/src/youtube"
	"gorm.io/gorm"
)

// Upper bound for one full pipeline run: transcript fetch plus two AI passes.
const checkTimeout = 4 * time.Minute

// TranscriptSource fetches a video's title and caption transcript.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, videoID string) (*youtube.Video, error)
}

// ClaimChecker runs the two AI passes over a transcript.
type ClaimChecker interface {
	ExtractClaims(ctx context.Context, transcript, videoTitle string) (string, error)
	FactCheck(ctx context.Context, claims string) (string, error)
}

type Checks struct {
	db        *gorm.DB
	rdb       *redis.Client
	source    TranscriptSource
	checker   ClaimChecker
	sanitizer *bluemonday.Policy
	provider  string
	model     string
	cacheTTL  time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewChecks(d Deps) *Checks {
	return &Checks{
		db:        d.DB,
		rdb:       d.RDB,
		source:    d.Source,
		checker:   d.Checker,
		sanitizer: markdownPolicy(),
		provider:  d.Provider,
		model:     d.Model,
		cacheTTL:  d.CacheTTL,
		inflight:  make(map[string]struct{}),
	}
}

// Run handles POST /api/check-claims: fetch the transcript, extract claims,
// fact-check them, and return everything the page renders.
func (h *Checks) Run(c *gin.Context) {
	var req types.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.CheckResponse{Success: false, Error: "Video URL is required"})
		return
	}

	if h.checker == nil {
		c.JSON(http.StatusInternalServerError, types.CheckResponse{Success: false, Error: "Gemini API key not configured"})
		return
	}

	videoID, err := youtube.ExtractVideoID(req.VideoURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.CheckResponse{Success: false, Error: "Invalid YouTube URL"})
		return
	}

	// One pipeline run per video at a time; the page's busy flag enforces the
	// same thing per browser, this covers everyone else.
	if !h.begin(videoID) {
		c.JSON(http.StatusTooManyRequests, types.CheckResponse{
			Success: false,
			Error:   "A check for this video is already running, try again shortly",
		})
		return
	}
	defer h.end(videoID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	cacheKey := data.ReportCacheKey(videoID, h.provider, h.model)
	if h.rdb != nil {
		if cached, err := data.GetCachedReport(ctx, h.rdb, cacheKey); err != nil {
			logrus.Warnf("checks: cache lookup failed: %v", err)
		} else if cached != nil {
			logrus.Infof("checks: cache hit for %s", videoID)
			c.JSON(http.StatusOK, *cached)
			return
		}
	}

	video, err := h.source.FetchTranscript(ctx, videoID)
	if err != nil {
		logrus.Warnf("checks: transcript fetch failed for %s: %v", videoID, err)
		c.JSON(http.StatusBadRequest, types.CheckResponse{
			Success: false,
			Error:   "Could not extract subtitles from video: " + err.Error(),
		})
		return
	}

	transcript := youtube.PlainText(video.Segments)
	logrus.Infof("checks: %s transcript %d chars, extracting claims", videoID, len(transcript))

	claims, err := h.checker.ExtractClaims(ctx, transcript, video.Title)
	if err != nil {
		h.aiFailure(c, videoID, "claim extraction", err)
		return
	}

	results, err := h.checker.FactCheck(ctx, claims)
	if err != nil {
		h.aiFailure(c, videoID, "fact check", err)
		return
	}

	resp := types.CheckResponse{
		Success:          true,
		VideoTitle:       video.Title,
		VideoURL:         youtube.WatchURL(videoID),
		TranscriptLength: len(transcript),
		Claims:           h.sanitizer.Sanitize(claims),
		FactCheckResults: h.sanitizer.Sanitize(results),
	}

	h.persist(c, videoID, resp)
	if h.rdb != nil {
		if err := data.CacheReport(ctx, h.rdb, cacheKey, resp, h.cacheTTL); err != nil {
			logrus.Warnf("checks: cache store failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// aiFailure maps AI pass errors to a response. Quota rejections from the
// provider surface as 429 so the page can tell the user to retry rather than
// showing a server error.
func (h *Checks) aiFailure(c *gin.Context, videoID, stage string, err error) {
	logrus.Warnf("checks: %s failed for %s: %v", stage, videoID, err)
	if logging.IsRateLimit(err) {
		c.JSON(http.StatusTooManyRequests, types.CheckResponse{
			Success: false,
			Error:   "AI provider is over its rate limit, try again later",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.CheckResponse{Success: false, Error: err.Error()})
}

func (h *Checks) persist(c *gin.Context, videoID string, resp types.CheckResponse) {
	if h.db == nil {
		return
	}
	report := types.Report{
		RequestID:        c.GetString("request_id"),
		VideoID:          videoID,
		VideoURL:         resp.VideoURL,
		Title:            resp.VideoTitle,
		TranscriptLength: resp.TranscriptLength,
		Claims:           resp.Claims,
		FactCheckResults: resp.FactCheckResults,
	}
	if err := h.db.Create(&report).Error; err != nil {
		logrus.Warnf("checks: persist failed for %s: %v", videoID, err)
	}
}

func (h *Checks) begin(videoID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[videoID]; busy {
		return false
	}
	h.inflight[videoID] = struct{}{}
	return true
}

func (h *Checks) end(videoID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, videoID)
}
