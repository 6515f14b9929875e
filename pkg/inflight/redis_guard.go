package inflight

import (
	"context"
	"fmt"
	"time"

	"ideaspark-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only while it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const module = "InflightGuard"

// RedisGuard shares leases between instances with SET NX.
type RedisGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger logger.ILogger
}

var _ Guard = (*RedisGuard)(nil)

func NewRedisGuard(client redis.UniversalClient, ttl time.Duration, logger logger.ILogger) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &RedisGuard{client: client, prefix: "ideaspark:inflight:", ttl: ttl, logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.prefix+key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire in-flight lease: %w", err)
	}
	if !ok {
		return nil, ErrOperationInProgress
	}

	return func() {
		// The request context may already be done when the operation ends.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{g.prefix + key}, token).Err(); err != nil {
			// The lease now lives until its TTL runs out.
			g.logger.Error(module, "Failed to release in-flight lease", map[string]interface{}{
				"key":   key,
				"ttl":   g.ttl.String(),
				"error": err,
			})
		}
	}, nil
}
