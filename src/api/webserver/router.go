package webserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func attachRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.Default())
	r.Use(requestID())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pageHTML))
	})

	checksH := NewChecks(d)
	healthH := Health{AIConfigured: d.AIConfigured}
	reportsH := Reports{DB: d.DB}

	api := r.Group("/api")
	{
		api.GET("/health", healthH.Check)

		limiter := NewRateLimiter(d.RateLimit, d.RateWindow)
		api.POST("/check-claims", RateLimitMiddleware(limiter), checksH.Run)

		api.GET("/reports", reportsH.List)
		api.GET("/reports/:videoID", reportsH.ByVideo)
	}
}

// requestID tags every request so log lines and stored reports correlate.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
