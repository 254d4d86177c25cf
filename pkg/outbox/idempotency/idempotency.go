package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/redis"
)

// Manager hands out per-consumer ledgers of handled event ids so a
// redelivered Pub/Sub message is acted on once.
type Manager struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func NewManager(store redis.IdempotencyStore, ttl time.Duration) (*Manager, error) {
	switch {
	case store == nil:
		return nil, errors.New("idempotency: store is nil")
	case ttl < 0:
		return nil, errors.New("idempotency: negative ttl")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// For scopes claims to one consumer; two consumers may each handle the
// same event once.
func (m *Manager) For(consumer string) *Ledger {
	return &Ledger{m: m, scope: "evt:" + strings.TrimSpace(consumer)}
}

// Ledger records event ids one consumer has taken.
type Ledger struct {
	m     *Manager
	scope string
}

// Claim is held while an event is being handled.
type Claim struct {
	ledger *Ledger
	key    string
}

// Claim takes eventID. A nil Claim with a nil error means an earlier
// delivery already took it.
func (l *Ledger) Claim(ctx context.Context, eventID string) (*Claim, error) {
	if l.scope == "evt:" {
		return nil, errors.New("idempotency: consumer name is empty")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, errors.New("idempotency: event id is empty")
	}
	key := l.m.store.IdempotencyKey(l.scope, eventID)
	won, err := l.m.store.SetNX(ctx, key, "1", l.m.ttl)
	if err != nil || !won {
		return nil, err
	}
	return &Claim{ledger: l, key: key}, nil
}

// Release gives the event back so the next delivery retries it.
func (c *Claim) Release(ctx context.Context) error {
	return c.ledger.m.store.Del(ctx, c.key)
}
