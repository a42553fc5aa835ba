package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"safetrail/internal/location/models"
	"safetrail/internal/platform/redis"
	id "safetrail/pkg/domain"
)

// Redis stores samples as JSON values with the freshness window as TTL, so
// stale entries expire server-side and Latest never has to filter them.
type Redis struct {
	client    *redis.Client
	freshness time.Duration
}

func NewRedis(client *redis.Client, freshness time.Duration) *Redis {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Redis{client: client, freshness: freshness}
}

func (r *Redis) Put(ctx context.Context, userID id.UserID, sample models.Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal location sample: %w", err)
	}
	if err := r.client.Set(ctx, sampleKey(userID), payload, r.freshness).Err(); err != nil {
		return fmt.Errorf("cache location sample: %w", err)
	}
	return nil
}

func (r *Redis) Latest(ctx context.Context, userID id.UserID) (*models.Sample, error) {
	raw, err := r.client.Get(ctx, sampleKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read location sample: %w", err)
	}
	var sample models.Sample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, fmt.Errorf("decode location sample: %w", err)
	}
	return &sample, nil
}

func sampleKey(userID id.UserID) string {
	return "location:latest:" + userID.String()
}
