package webserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries everything the routes need. DB and RDB may be nil; the
// affected features degrade instead of failing.
type Deps struct {
	DB  *gorm.DB
	RDB *redis.Client

	Source  TranscriptSource
	Checker ClaimChecker

	AIConfigured bool
	Provider     string
	Model        string
	CacheTTL     time.Duration

	RateLimit  int
	RateWindow time.Duration
}

func New(d Deps) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, d)
	return g
}
