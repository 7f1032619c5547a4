package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CookieName = "sid"
	DefaultTTL = 24 * time.Hour
)

// Session is one browser's credential record. It satisfies
// apiclient.TokenSource.
type Session struct {
	ID    string
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func (s *Session) tokens(ctx context.Context) (Tokens, error) {
	t, err := s.store.Get(ctx, s.ID)
	if errors.Is(err, ErrNotFound) {
		return Tokens{}, nil
	}
	return t, err
}

func (s *Session) AccessToken(ctx context.Context) (string, error) {
	t, err := s.tokens(ctx)
	return t.AccessToken, err
}

func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	t, err := s.tokens(ctx)
	return t.RefreshToken, err
}

// Authenticated reports whether an access token is stored.
func (s *Session) Authenticated(ctx context.Context) bool {
	tok, err := s.AccessToken(ctx)
	return err == nil && tok != ""
}

// Save stores both tokens. The record lives until the access token's exp
// claim, or the default TTL when the token carries none.
func (s *Session) Save(ctx context.Context, t Tokens) error {
	return s.store.Put(ctx, s.ID, t, s.lifetime(t.AccessToken))
}

func (s *Session) Purge(ctx context.Context) error {
	return s.store.Delete(ctx, s.ID)
}

func (s *Session) lifetime(access string) time.Duration {
	if exp, ok := Expiry(access); ok {
		if d := exp.Sub(s.now()); d > 0 {
			return d
		}
	}
	return s.ttl
}

type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	log    *logrus.Entry
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, secure bool, log *logrus.Entry) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, secure: secure, log: log.WithField("component", "session"), now: time.Now}
}

// Bind returns the session for id without touching the cookie jar.
func (m *Manager) Bind(id string) *Session {
	return &Session{ID: id, store: m.store, ttl: m.ttl, now: m.now}
}

// Middleware attaches a Session to every request, issuing a new sid cookie
// when the browser has none (or a malformed one).
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			m.setCookie(w, id)
			m.log.WithField("sid", id[:8]).Debug("new session")
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), m.Bind(id))))
	})
}

// Renew moves old's tokens to a fresh id, deletes the old record and sends
// the new cookie. Call it whenever the credentials change hands (login,
// logout) so an id planted before login never carries tokens.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, old *Session) (*Session, error) {
	fresh := m.Bind(uuid.NewString())
	t, err := old.tokens(ctx)
	if err != nil {
		return nil, err
	}
	if !t.Empty() {
		if err := fresh.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	if err := old.Purge(ctx); err != nil {
		return nil, err
	}
	m.setCookie(w, fresh.ID)
	return fresh, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
