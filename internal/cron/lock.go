package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Unlock gives a held lock back.
type Unlock func(ctx context.Context) error

// Lock keeps maintenance cycles from overlapping across replicas. TryLock
// returns a nil Unlock when another holder owns the lock.
type Lock interface {
	TryLock(ctx context.Context) (Unlock, error)
}

type mutexStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Mutex stores a random token under key for at most ttl. Only the token
// holder deletes the key, so a cycle that outlives its ttl cannot free a
// lock some other replica has since taken.
type Mutex struct {
	store mutexStore
	key   string
	ttl   time.Duration
}

// MutexKey is the per-environment key the maintenance worker locks on.
func MutexKey(env string) string {
	if env == "" {
		env = "local"
	}
	return "sh:cron:lock:" + env
}

func NewMutex(store mutexStore, key string, ttl time.Duration) (*Mutex, error) {
	switch {
	case store == nil:
		return nil, errors.New("cron mutex: store is nil")
	case key == "":
		return nil, errors.New("cron mutex: empty key")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Mutex{store: store, key: key, ttl: ttl}, nil
}

func (m *Mutex) TryLock(ctx context.Context) (Unlock, error) {
	token := uuid.NewString()
	won, err := m.store.SetNX(ctx, m.key, token, m.ttl)
	if err != nil {
		return nil, fmt.Errorf("cron mutex %s: %w", m.key, err)
	}
	if !won {
		return nil, nil
	}
	return func(ctx context.Context) error { return m.unlock(ctx, token) }, nil
}

func (m *Mutex) unlock(ctx context.Context, token string) error {
	current, err := m.store.Get(ctx, m.key)
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("cron mutex %s: read holder: %w", m.key, err)
	case current != token:
		return nil
	}
	if err := m.store.Del(ctx, m.key); err != nil {
		return fmt.Errorf("cron mutex %s: delete: %w", m.key, err)
	}
	return nil
}
