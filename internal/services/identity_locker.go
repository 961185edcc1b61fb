package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/redisclient"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.uber.org/zap"
)

// ErrIdentityLocked is returned when the per-identity lock could not be taken in time
var ErrIdentityLocked = errors.New("employee is being updated by another request")

// IdentityLocker serializes work per document number. The returned unlock
// must be called exactly once.
type IdentityLocker interface {
	Lock(ctx context.Context, doc models.DocumentNumber) (unlock func(), err error)
}

// LocalIdentityLocker holds one mutex per document number in process memory.
// Entries are reference counted and dropped when the last holder leaves.
type LocalIdentityLocker struct {
	mu    sync.Mutex
	locks map[string]*identityLock
}

type identityLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalIdentityLocker creates an empty in-process locker
func NewLocalIdentityLocker() *LocalIdentityLocker {
	return &LocalIdentityLocker{locks: make(map[string]*identityLock)}
}

func (l *LocalIdentityLocker) Lock(ctx context.Context, doc models.DocumentNumber) (func(), error) {
	key := doc.String()

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &identityLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lock)
		return nil, fmt.Errorf("%w: %v", ErrIdentityLocked, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.release(key, lock)
		})
	}, nil
}

func (l *LocalIdentityLocker) release(key string, lock *identityLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports the number of tracked identities
func (l *LocalIdentityLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// releaseScript deletes the lock only when it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisIdentityLocker takes a SET NX PX lock per document number so that
// several service instances serialize on the same identity.
type RedisIdentityLocker struct {
	redis        *redisclient.Client
	ttl          time.Duration
	wait         time.Duration
	pollInterval time.Duration
	logger       *logging.SafeLogger
}

// NewRedisIdentityLocker creates a distributed locker. Locks expire after ttl
// and Lock gives up after waiting ttl for a holder to finish.
func NewRedisIdentityLocker(client *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *RedisIdentityLocker {
	return &RedisIdentityLocker{
		redis:        client,
		ttl:          ttl,
		wait:         ttl,
		pollInterval: 50 * time.Millisecond,
		logger:       logger.Named("identity_locker"),
	}
}

func identityLockKey(doc models.DocumentNumber) string {
	return fmt.Sprintf("%s:lock:%s", employeeCachePrefix, doc.String())
}

func (l *RedisIdentityLocker) Lock(ctx context.Context, doc models.DocumentNumber) (func(), error) {
	key := identityLockKey(doc)
	token := utils.GenerateUUID()
	masked := observability.MaskDocument(doc.String())
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire identity lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			l.logger.Warn("identity lock wait timed out", zap.String("document_number", masked))
			return nil, ErrIdentityLocked
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrIdentityLocked, ctx.Err())
		case <-time.After(l.pollInterval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release must outlive a cancelled request context
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := l.redis.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release identity lock", zap.String("document_number", masked), zap.Error(err))
			}
		})
	}, nil
}
