package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port string

	AIProvider string
	AIModel    string
	GeminiKey  string
	OpenAIKey  string

	// Optional: empty disables persistence / caching.
	MySQLDSN string
	RedisURL string
	CacheTTL time.Duration

	Languages []string

	RateLimit  int
	RateWindow time.Duration

	LogFile string
	Verbose bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("config: %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

// Load reads configuration from the environment, honoring a .env file when
// one exists.
func Load() Config {
	_ = godotenv.Load()

	langs := strings.Split(getenv("TRANSCRIPT_LANGUAGES", "en,en-US,en-GB"), ",")
	for i := range langs {
		langs[i] = strings.TrimSpace(langs[i])
	}

	return Config{
		Port:       getenv("PORT", "5000"),
		AIProvider: getenv("AI_PROVIDER", "gemini"),
		AIModel:    getenv("AI_MODEL", ""),
		GeminiKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		MySQLDSN:   os.Getenv("MYSQL_DSN"),
		RedisURL:   os.Getenv("REDIS_URL"),
		CacheTTL:   time.Duration(getint("CACHE_TTL_MINUTES", 60)) * time.Minute,
		Languages:  langs,
		RateLimit:  getint("RATE_LIMIT", 6),
		RateWindow: time.Duration(getint("RATE_WINDOW_SECONDS", 60)) * time.Second,
		LogFile:    os.Getenv("LOG_FILE"),
		Verbose:    getenv("VERBOSE", "") != "",
	}
}
