package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/redis/go-redis/v9"
	aicore "github.com/veritube/ytverifier/src/ai/core"
	_ "github.com/veritube/ytverifier/src/ai/providers"
	"github.com/veritube/ytverifier/src/api/config"
	"github.com/veritube/ytverifier/src/api/data"
	"github.com/veritube/ytverifier/src/api/types"
	"github.com/veritube/ytverifier/src/api/webserver"
	"github.com/veritube/ytverifier/src/factcheck"
	"github.com/veritube/ytverifier/src/logging"
	"github.com/veritube/ytverifier/src/youtube"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Verbose, cfg.LogFile)

	var db *gorm.DB
	if cfg.MySQLDSN != "" {
		db = data.MustMySQL(cfg.MySQLDSN)
		if err := db.AutoMigrate(&types.Report{}); err != nil {
			logrus.Fatalf("migrate: %v", err)
		}
	} else {
		logrus.Info("MYSQL_DSN not set, report persistence disabled")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = data.MustRedis(cfg.RedisURL)
	} else {
		logrus.Info("REDIS_URL not set, report caching disabled")
	}

	var checker webserver.ClaimChecker
	aiConfigured := cfg.GeminiKey != "" || cfg.OpenAIKey != ""
	if aiConfigured {
		client, err := aicore.NewClient(aicore.FactoryConfig{
			Provider:  cfg.AIProvider,
			Model:     cfg.AIModel,
			GeminiKey: cfg.GeminiKey,
			OpenAIKey: cfg.OpenAIKey,
		})
		if err != nil {
			logrus.Fatalf("ai client: %v", err)
		}
		checker = factcheck.NewAnalyzer(client, aicore.Options{})
	} else {
		logrus.Warn("GEMINI_API_KEY not set, /api/check-claims will refuse requests")
	}

	router := webserver.New(webserver.Deps{
		DB:           db,
		RDB:          rdb,
		Source:       youtube.NewClient(youtube.WithLanguages(cfg.Languages)),
		Checker:      checker,
		AIConfigured: aiConfigured,
		Provider:     cfg.AIProvider,
		Model:        cfg.AIModel,
		CacheTTL:     cfg.CacheTTL,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http: %v", err)
		}
	}()
	logrus.Infof("claim checker API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
