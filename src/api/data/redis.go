package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/veritube/ytverifier/src/api/types"
)

const reportPrefix = "factcheck:report:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logrus.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// ReportCacheKey keys a finished report by video ID plus the settings that
// shape the output, so a provider or model change invalidates old entries.
func ReportCacheKey(videoID, provider, model string) string {
	h := xxhash.New64()
	_, _ = h.WriteString(videoID)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(provider)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(model)
	return fmt.Sprintf("%s%016x", reportPrefix, h.Sum64())
}

func CacheReport(ctx context.Context, rdb *redis.Client, key string, resp types.CheckResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, payload, ttl).Err()
}

// GetCachedReport returns the cached response for key, or nil on a miss.
func GetCachedReport(ctx context.Context, rdb *redis.Client, key string) (*types.CheckResponse, error) {
	payload, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp types.CheckResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
