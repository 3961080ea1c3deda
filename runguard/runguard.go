package runguard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Guard allows at most one analysis run per user at a time across API instances.
type Guard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGuard creates a guard. If ttl is 0, defaults to 5 minutes.
func NewGuard(rdb *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Guard{rdb: rdb, ttl: ttl}
}

func lockKey(uid string) string {
	return fmt.Sprintf("ytinsight:run:%s", uid)
}

// Acquire takes the run lock for uid. When acquired is false another run holds it.
// The lock expires on its own after the ttl if release is never called.
func (g *Guard) Acquire(ctx context.Context, uid string) (release func(), acquired bool, err error) {
	token := uuid.New().String()
	key := lockKey(uid)
	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, g.rdb, []string{key}, token).Err()
	}, true, nil
}
