package auth

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/config"
)

const (
	SessionName = "storefront_session"

	keyAdmin           = "is_admin"
	keyAuthenticatedAt = "authenticated_at"
)

// Manager loads per-request sessions from a gorilla sessions.Store.
type Manager struct {
	store sessions.Store
	auth  *Authenticator
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store sessions.Store, auth *Authenticator, ttl time.Duration) *Manager {
	return &Manager{store: store, auth: auth, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Load returns the caller's session. A missing, tampered or expired cookie
// yields an anonymous session rather than an error.
func (m *Manager) Load(r *http.Request) *Session {
	raw, err := m.store.Get(r, SessionName)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Discarding unreadable session cookie")
		raw, _ = m.store.New(r, SessionName)
		raw.ID = ""
		raw.Values = make(map[interface{}]interface{})
	}
	return &Session{raw: raw, m: m, r: r}
}

// discarder is implemented by stores that keep server-side state per session id.
type discarder interface {
	Discard(ctx context.Context, id string) error
}

// Session is the explicit per-request authentication state.
type Session struct {
	raw *sessions.Session
	m   *Manager
	r   *http.Request
}

func (s *Session) IsAdmin() bool {
	admin, _ := s.raw.Values[keyAdmin].(bool)
	if !admin {
		return false
	}
	at, ok := s.raw.Values[keyAuthenticatedAt].(int64)
	if !ok {
		return false
	}
	return s.m.now().Sub(time.Unix(at, 0)) <= s.m.ttl
}

// Login marks the session as admin when password is accepted. On mismatch
// the session is left untouched.
func (s *Session) Login(w http.ResponseWriter, password string) error {
	if !s.m.auth.Verify(password) {
		hlog.FromRequest(s.r).Warn().Msg("Rejected admin login")
		return fmt.Errorf("%w: invalid password", apperr.ErrUnauthorized)
	}

	// New session id on privilege change.
	previousID := s.raw.ID
	s.raw.ID = ""
	s.raw.Values[keyAdmin] = true
	s.raw.Values[keyAuthenticatedAt] = s.m.now().Unix()
	if err := s.raw.Save(s.r, w); err != nil {
		return apperr.Persistence("save session", err)
	}
	if d, ok := s.m.store.(discarder); ok && previousID != "" && previousID != s.raw.ID {
		if err := d.Discard(s.r.Context(), previousID); err != nil {
			hlog.FromRequest(s.r).Warn().Err(err).Msg("Failed to discard previous session")
		}
	}

	hlog.FromRequest(s.r).Info().Msg("Admin logged in")
	return nil
}

// Logout drops any authentication state. It is safe to call repeatedly.
func (s *Session) Logout(w http.ResponseWriter) error {
	for k := range s.raw.Values {
		delete(s.raw.Values, k)
	}
	s.raw.Options.MaxAge = -1
	if err := s.raw.Save(s.r, w); err != nil {
		return apperr.Persistence("clear session", err)
	}
	return nil
}

// NewStore builds the configured session backend.
func NewStore(cfg config.SessionConfig, secure bool) (sessions.Store, error) {
	hashKey, blockKey := DeriveKeys(cfg.SecretKey)
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.Store {
	case "redis":
		client := NewRedisClient(cfg)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis session store")
		return NewRedisStore(client, opts, hashKey, blockKey), nil
	case "cookie", "":
		store := sessions.NewCookieStore(hashKey, blockKey)
		store.Options = opts
		store.MaxAge(opts.MaxAge)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// DeriveKeys turns SECRET_KEY into an HMAC key and an AES-256 key.
func DeriveKeys(secret string) (hashKey, blockKey []byte) {
	h := sha256.Sum256([]byte("storefront-session-hash:" + secret))
	b := sha256.Sum256([]byte("storefront-session-block:" + secret))
	return h[:], b[:]
}
