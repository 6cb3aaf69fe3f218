// Package locker serializes read-modify-write cycles on a single progress or
// ledger record.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when a distributed lock could not be acquired
// before the context expired or the retry budget ran out.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Locker hands out exclusive locks by key. The returned func releases the lock
// and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// ProgressKey is the lock key for one (user, level) progress record
func ProgressKey(userID uint, levelNumber int) string {
	return fmt.Sprintf("progress:%d:%d", userID, levelNumber)
}

// UserKey is the lock key covering operations that span a user's levels
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// entry holds one token in sem while locked
type entry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker. Entries are dropped once no goroutine
// holds or waits on them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.release(key, e)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// size reports the number of live entries
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every API instance pointing at the same
// Redis. Locks expire after ttl so a crashed holder cannot wedge a record.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		prefix:     "wordquest:lock:",
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.ttl)

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(r.retryDelay):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release with a fresh context; the request context may already be done
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err()
		})
	}, nil
}

// NewFromURL returns a RedisLocker when redisURL is set and reachable,
// otherwise an in-process KeyedMutex.
func NewFromURL(ctx context.Context, redisURL string, ttl time.Duration) (Locker, func() error, error) {
	if redisURL == "" {
		return NewKeyedMutex(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opts.MaxRetries = 3
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisLocker(client, ttl), client.Close, nil
}
