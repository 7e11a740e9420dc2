package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WebhookGuard 同一外部订单的并发投递只放行一个，数据库唯一索引兜底
type WebhookGuard struct {
	redis *redis.Client
}

func NewWebhookGuard(redis *redis.Client) *WebhookGuard {
	return &WebhookGuard{redis: redis}
}

func (g *WebhookGuard) key(marketplace, externalID string) string {
	return fmt.Sprintf("omnisell:webhook:%s:%s", marketplace, externalID)
}

// Acquire 抢占投递锁，false 表示已有请求在处理
func (g *WebhookGuard) Acquire(ctx context.Context, marketplace, externalID, token string, ttl time.Duration) (bool, error) {
	return g.redis.SetNX(ctx, g.key(marketplace, externalID), token, ttl).Result()
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release 只释放自己持有的锁
func (g *WebhookGuard) Release(ctx context.Context, marketplace, externalID, token string) error {
	return releaseScript.Run(ctx, g.redis, []string{g.key(marketplace, externalID)}, token).Err()
}
