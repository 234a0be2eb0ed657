package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/db/tables"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"go.uber.org/zap"
)

const (
	defaultCookieName = "shoecreatify.sid"
	defaultMaxAge     = 24 * time.Hour
	defaultRememberMe = 30 * 24 * time.Hour
)

// ErrNoSession is returned when a cookie token does not resolve to a live session
var ErrNoSession = errors.New("no active session")

// Storer persists session rows
type Storer interface {
	InsertSession(ctx context.Context, session *tables.SessionTable) error
	ActiveSession(ctx context.Context, id string) (*tables.SessionTable, error)
	DeleteSession(ctx context.Context, id string) (bool, error)
	DeleteAccountSessions(ctx context.Context, accountID uuid.UUID) (int64, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// Client describes where a session was started from
type Client struct {
	IP        string
	UserAgent string
}

// Session is a freshly started session, Token is the cookie value and is never stored
type Session struct {
	Token      string
	AccountID  uuid.UUID
	ExpiresAt  time.Time
	Persistent bool
}

// Manager starts, resolves and revokes server side sessions.
// Only the sha256 digest of the cookie token is persisted.
type Manager struct {
	store  Storer
	log    *zap.Logger
	cfg    *config.SessionConfiguration
	secure bool
	token  func() string
	now    func() time.Time
}

// NewManager returns a session manager, secure switches the cookie to Secure and SameSite=None
func NewManager(store Storer, log *zap.Logger, cfg *config.SessionConfiguration, secure bool) *Manager {
	gen := generator.New()
	return &Manager{
		store:  store,
		log:    log,
		cfg:    cfg,
		secure: secure,
		token:  func() string { return string(gen.CreateHexToken()) },
		now:    time.Now,
	}
}

func (m *Manager) lifetime(rememberMe bool) time.Duration {
	if rememberMe {
		if m.cfg != nil && m.cfg.RememberMeDuration > 0 {
			return m.cfg.RememberMeDuration
		}
		return defaultRememberMe
	}
	if m.cfg != nil && m.cfg.MaxAge > 0 {
		return m.cfg.MaxAge
	}
	return defaultMaxAge
}

// Start creates a session for the account
func (m *Manager) Start(
	ctx context.Context,
	accountID uuid.UUID,
	rememberMe bool,
	client Client,
) (*Session, error) {
	token := m.token()
	now := m.now().UTC()
	row := &tables.SessionTable{
		ID:        generator.DigestToken(token),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime(rememberMe)),
	}
	if client.IP != "" {
		row.IP = &client.IP
	}
	if client.UserAgent != "" {
		row.UserAgent = &client.UserAgent
	}
	if err := m.store.InsertSession(ctx, row); err != nil {
		m.log.Error("could not persist session", zap.Error(err))
		return nil, err
	}
	return &Session{
		Token:      token,
		AccountID:  accountID,
		ExpiresAt:  row.ExpiresAt,
		Persistent: rememberMe,
	}, nil
}

// Resolve returns the account owning the session token
func (m *Manager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.UUID{}, ErrNoSession
	}
	row, err := m.store.ActiveSession(ctx, generator.DigestToken(token))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return uuid.UUID{}, ErrNoSession
		}
		return uuid.UUID{}, err
	}
	return row.AccountID, nil
}

// Revoke destroys the session belonging to the token and returns its account
func (m *Manager) Revoke(ctx context.Context, token string) (uuid.UUID, error) {
	accountID, err := m.Resolve(ctx, token)
	if err != nil {
		return uuid.UUID{}, err
	}
	if _, err := m.store.DeleteSession(ctx, generator.DigestToken(token)); err != nil {
		return uuid.UUID{}, err
	}
	return accountID, nil
}

// RevokeAll destroys every session of an account
func (m *Manager) RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return m.store.DeleteAccountSessions(ctx, accountID)
}

// Purge removes expired sessions
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

// RunJanitor purges expired sessions every interval until the context is done
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.Purge(ctx)
			if err != nil {
				m.log.Warn("session purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				m.log.Debug("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}

// CookieName returns the configured cookie name
func (m *Manager) CookieName() string {
	if m.cfg != nil && m.cfg.CookieName != "" {
		return m.cfg.CookieName
	}
	return defaultCookieName
}

func (m *Manager) sameSite() http.SameSite {
	if m.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Cookie returns the cookie carrying the session token,
// only remember me sessions outlive the browser session
func (m *Manager) Cookie(s *Session) *http.Cookie {
	c := &http.Cookie{
		Name:     m.CookieName(),
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	}
	if s.Persistent {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	return c
}

// ClearCookie returns a cookie that removes the session cookie in the browser
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	}
}

// TokenFromRequest reads the session token from the request cookie
func (m *Manager) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.CookieName())
	if err != nil {
		return ""
	}
	return c.Value
}
