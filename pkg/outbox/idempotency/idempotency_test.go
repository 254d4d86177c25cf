package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	keys    map[string]time.Duration
	setErr  error
	lastDel string
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]time.Duration{}}
}

func (f *fakeStore) Get(context.Context, string) (string, error) { return "", nil }

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = ttl
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "sh:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.keys, k)
		f.lastDel = k
	}
	return nil
}

func TestClaimOnlyOnce(t *testing.T) {
	store := newFakeStore()
	m, err := NewManager(store, 24*time.Hour)
	require.NoError(t, err)
	ctx := context.Background()
	notifications := m.For("notification-worker")

	first, err := notifications.Claim(ctx, "evt-1")
	require.NoError(t, err)
	assert.NotNil(t, first)
	assert.Equal(t, 24*time.Hour, store.keys["sh:idempotency:evt:notification-worker:evt-1"])

	second, err := notifications.Claim(ctx, "evt-1")
	require.NoError(t, err)
	assert.Nil(t, second)

	other, err := m.For("audit-worker").Claim(ctx, "evt-1")
	require.NoError(t, err)
	assert.NotNil(t, other, "claims are per consumer")
}

func TestReleaseAllowsReclaim(t *testing.T) {
	store := newFakeStore()
	m, err := NewManager(store, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()
	ledger := m.For("notification-worker")

	claim, err := ledger.Claim(ctx, "evt-2")
	require.NoError(t, err)
	require.NoError(t, claim.Release(ctx))
	assert.Equal(t, "sh:idempotency:evt:notification-worker:evt-2", store.lastDel)

	again, err := ledger.Claim(ctx, "evt-2")
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestClaimValidation(t *testing.T) {
	m, err := NewManager(newFakeStore(), time.Hour)
	require.NoError(t, err)
	_, err = m.For(" ").Claim(context.Background(), "evt")
	assert.Error(t, err)
	_, err = m.For("worker").Claim(context.Background(), " ")
	assert.Error(t, err)

	_, err = NewManager(nil, time.Hour)
	assert.Error(t, err)
	_, err = NewManager(newFakeStore(), -time.Second)
	assert.Error(t, err)
}

func TestClaimPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("boom")
	m, err := NewManager(store, time.Hour)
	require.NoError(t, err)
	claim, err := m.For("worker").Claim(context.Background(), "evt")
	assert.Error(t, err)
	assert.Nil(t, claim)
}
