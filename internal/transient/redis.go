package transient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"dmapi/internal/domain"
)

const keyPrefix = "dmr:versions:"

// RedisManager stores listings as JSON blobs with a TTL. Cache errors are
// logged and treated as misses so a flaky cache never fails a request.
type RedisManager struct {
	cl  *redis.Client
	ttl time.Duration
}

func NewRedisManager(cl *redis.Client, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{cl: cl, ttl: ttl}
}

func (m *RedisManager) GetVersions(ctx context.Context, downloadID int64) ([]domain.Version, bool) {
	raw, err := m.cl.Get(ctx, versionsKey(downloadID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("transient get download_id=%d err=%v", downloadID, err)
		}
		return nil, false
	}

	var versions []domain.Version
	if err := json.Unmarshal(raw, &versions); err != nil {
		log.Printf("transient decode download_id=%d err=%v", downloadID, err)
		return nil, false
	}
	return versions, true
}

func (m *RedisManager) SetVersions(ctx context.Context, downloadID int64, versions []domain.Version) {
	raw, err := json.Marshal(versions)
	if err != nil {
		log.Printf("transient encode download_id=%d err=%v", downloadID, err)
		return
	}
	if err := m.cl.Set(ctx, versionsKey(downloadID), raw, m.ttl).Err(); err != nil {
		log.Printf("transient set download_id=%d err=%v", downloadID, err)
	}
}

func (m *RedisManager) ClearVersionsTransient(ctx context.Context, downloadID int64) error {
	return m.cl.Del(ctx, versionsKey(downloadID)).Err()
}

func versionsKey(downloadID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, downloadID)
}
