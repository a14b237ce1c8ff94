package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PhoneLockManager serializes request creation per normalized phone
// number so that concurrent webhook deliveries for the same call cannot
// both pass the duplicate check. Within one process a mutex per phone is
// held; when a redis client is configured a SET NX lock additionally
// covers multi-instance deployments. The lock narrows the race, the
// re-check inside the insert transaction closes it.
type PhoneLockManager struct {
	mu    sync.Mutex
	locks map[string]*phoneLock

	cache   redis.Cmdable
	lockTTL time.Duration
}

type phoneLock struct {
	mu   sync.Mutex
	refs int
}

// NewPhoneLockManager creates a lock manager; cache may be nil.
func NewPhoneLockManager(cache redis.Cmdable, lockTTL time.Duration) *PhoneLockManager {
	if lockTTL <= 0 {
		lockTTL = 15 * time.Second
	}
	return &PhoneLockManager{
		locks:   make(map[string]*phoneLock),
		cache:   cache,
		lockTTL: lockTTL,
	}
}

// Acquire blocks until the per-phone lock is held and returns a release
// function. The caller must invoke release exactly once.
func (m *PhoneLockManager) Acquire(ctx context.Context, phone string) func() {
	m.mu.Lock()
	l, ok := m.locks[phone]
	if !ok {
		l = &phoneLock{}
		m.locks[phone] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	redisKey := ""
	if m.cache != nil {
		redisKey = "webhook:phone_lock:" + phone
		m.acquireRedis(ctx, redisKey)
	}

	return func() {
		if redisKey != "" {
			_ = m.cache.Del(context.Background(), redisKey).Err()
		}
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, phone)
		}
		m.mu.Unlock()
	}
}

// acquireRedis polls SET NX until the key is taken, the TTL worth of
// time has passed, or the context ends. Failing to take the key is not
// fatal; the transactional re-check still guards the insert.
func (m *PhoneLockManager) acquireRedis(ctx context.Context, key string) {
	deadline := time.Now().Add(m.lockTTL)
	for {
		ok, err := m.cache.SetNX(ctx, key, "1", m.lockTTL).Result()
		if err != nil || ok {
			return
		}
		if time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
