package session

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/db/tables"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memStore struct {
	mu   sync.Mutex
	rows map[string]*tables.SessionTable
	now  func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{rows: make(map[string]*tables.SessionTable), now: now}
}

func (m *memStore) InsertSession(ctx context.Context, session *tables.SessionTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[session.ID] = session
	return nil
}

func (m *memStore) ActiveSession(ctx context.Context, id string) (*tables.SessionTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || !row.ExpiresAt.After(m.now()) {
		return nil, db.ErrNotFound
	}
	return row, nil
}

func (m *memStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memStore) DeleteAccountSessions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, v := range m.rows {
		if v.AccountID == accountID {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, v := range m.rows {
		if !v.ExpiresAt.After(before) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

func newTestManager(t *testing.T, secure bool) (*Manager, *memStore, *time.Time) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newMemStore(clock)
	m := NewManager(store, zaptest.NewLogger(t), &config.SessionConfiguration{
		MaxAge:             time.Hour,
		RememberMeDuration: 30 * 24 * time.Hour,
	}, secure)
	m.now = clock
	return m, store, &now
}

func TestStartStoresDigestOnly(t *testing.T) {
	m, store, _ := newTestManager(t, false)
	accountID := uuid.New()
	s, err := m.Start(context.Background(), accountID, false, Client{IP: "10.0.0.1", UserAgent: "curl"})
	require.NoError(t, err)
	assert.Len(t, s.Token, 64)
	assert.False(t, s.Persistent)

	_, stored := store.rows[s.Token]
	assert.False(t, stored)
	row, ok := store.rows[generator.DigestToken(s.Token)]
	require.True(t, ok)
	assert.Equal(t, accountID, row.AccountID)
	assert.Equal(t, "10.0.0.1", *row.IP)
	assert.Equal(t, time.Hour, row.ExpiresAt.Sub(row.CreatedAt))
}

func TestRememberMeLifetime(t *testing.T) {
	m, _, _ := newTestManager(t, false)
	s, err := m.Start(context.Background(), uuid.New(), true, Client{})
	require.NoError(t, err)
	assert.True(t, s.Persistent)
	assert.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), s.ExpiresAt)
}

func TestResolveAndRevoke(t *testing.T) {
	m, _, now := newTestManager(t, false)
	ctx := context.Background()
	accountID := uuid.New()
	s, err := m.Start(ctx, accountID, false, Client{})
	require.NoError(t, err)

	got, err := m.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)

	_, err = m.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = m.Resolve(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNoSession)

	revoked, err := m.Revoke(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, accountID, revoked)
	_, err = m.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	expiring, err := m.Start(ctx, accountID, false, Client{})
	require.NoError(t, err)
	*now = now.Add(2 * time.Hour)
	_, err = m.Resolve(ctx, expiring.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRevokeAllAndPurge(t *testing.T) {
	m, store, now := newTestManager(t, false)
	ctx := context.Background()
	accountID := uuid.New()
	other := uuid.New()
	for i := 0; i < 3; i++ {
		_, err := m.Start(ctx, accountID, false, Client{})
		require.NoError(t, err)
	}
	_, err := m.Start(ctx, other, true, Client{})
	require.NoError(t, err)

	n, err := m.RevokeAll(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Len(t, store.rows, 1)

	_, err = m.Start(ctx, accountID, false, Client{})
	require.NoError(t, err)
	*now = now.Add(2 * time.Hour)
	n, err = m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.rows, 1)
}

func TestCookies(t *testing.T) {
	m, _, _ := newTestManager(t, true)
	s := &Session{Token: "abc", Persistent: false}
	c := m.Cookie(s)
	assert.Equal(t, "shoecreatify.sid", c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 0, c.MaxAge)

	cleared := m.ClearCookie()
	assert.Equal(t, -1, cleared.MaxAge)

	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", m.TokenFromRequest(r))
	r.AddCookie(c)
	assert.Equal(t, "abc", m.TokenFromRequest(r))
}
