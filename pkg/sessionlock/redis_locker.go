package sessionlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"talentscout-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "talentscout:session-lock:"
	retryBackoff = 25 * time.Millisecond
)

// Only the holder's token may delete the key.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker holds a SET NX PX lock per key so that several API instances
// serialize on the same candidate. When Redis errors it degrades to the
// in-process locker and says so once.
type RedisLocker struct {
	client   *redis.Client
	ttl      time.Duration
	fallback *LocalLocker
	logger   logger.ILogger
	warned   atomic.Bool
}

// New returns a LocalLocker when client is nil.
func New(client *redis.Client, ttl time.Duration, log logger.ILogger) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		fallback: NewLocalLocker(),
		logger:   log,
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	redisKey := keyPrefix + key

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			r.warnOnce(err)
			return r.fallback.Lock(ctx, key)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(retryBackoff):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's ctx may already be cancelled; release regardless.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := unlockScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil {
				r.logger.Warn("SESSION_LOCK", "Failed to release lock, it will expire", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		})
	}, nil
}

func (r *RedisLocker) warnOnce(err error) {
	if r.warned.CompareAndSwap(false, true) {
		r.logger.Warn("SESSION_LOCK", "Redis unavailable, falling back to in-process locks", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
