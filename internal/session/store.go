// Package session owns the caller's authentication state: the bearer token
// and the username it belongs to. It is the only writer of that state and of
// its persisted copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/cache"
	"github.com/joestump/linkfolio/internal/metrics"
)

// Cache keys of the persisted session.
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// Session is the current identity. The zero value is anonymous. Token and
// Username are always both set or both empty.
type Session struct {
	Token    string
	Username string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool { return s.Token != "" }

// API is the subset of the remote API the session store calls.
type API interface {
	Login(ctx context.Context, username, password string) (*apiclient.LoginResponse, error)
	Signup(ctx context.Context, req apiclient.SignupRequest) error
}

type Store struct {
	api      API
	cache    cache.Cache
	log      *slog.Logger
	validate *validator.Validate

	mu  sync.RWMutex
	cur Session
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func newStore(api API, c cache.Cache, opts []Option) *Store {
	s := &Store{api: api, cache: c, log: slog.Default(), validate: validator.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStore creates a store and restores the persisted session. If either
// key is missing the store starts anonymous.
func NewStore(ctx context.Context, api API, c cache.Cache, opts ...Option) (*Store, error) {
	s := newStore(api, c, opts)

	token, hasToken, err := c.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	username, hasUser, err := c.Get(ctx, UsernameKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if hasToken && hasUser && token != "" && username != "" {
		s.cur = Session{Token: token, Username: username}
		s.log.Debug("session restored", "username", username)
	}
	return s, nil
}

// NewStoreWithState creates a store holding sess without reading or
// writing the cache.
func NewStoreWithState(api API, c cache.Cache, sess Session, opts ...Option) *Store {
	s := newStore(api, c, opts)
	if sess.Token != "" && sess.Username != "" {
		s.cur = sess
	}
	return s
}

// Snapshot returns the session as of now.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Store) Token() string { return s.Snapshot().Token }
func (s *Store) Username() string { return s.Snapshot().Username }

// IsAuthenticated is the guard for views that require a logged-in user.
func (s *Store) IsAuthenticated() bool { return s.Snapshot().Authenticated() }

// Login authenticates against the API and, on success, persists and
// installs the new session. On failure the previous session is kept.
func (s *Store) Login(ctx context.Context, username, password string) error {
	resp, err := s.api.Login(ctx, username, password)
	if err == nil && resp.Token == "" {
		err = errors.New("login response carried no token")
	}
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login", "error").Inc()
		return apiclient.Normalize(err, apiclient.KindAuth, "Login failed")
	}

	next := Session{Token: resp.Token, Username: username}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, next); err != nil {
		s.log.Error("persist session", "error", err)
		if rerr := s.persist(ctx, s.cur); rerr != nil {
			s.log.Error("restore persisted session", "error", rerr)
		}
		metrics.SessionEventsTotal.WithLabelValues("login", "error").Inc()
		return apiclient.Normalize(err, apiclient.KindAuth, "Login failed")
	}
	s.cur = next
	metrics.SessionEventsTotal.WithLabelValues("login", "ok").Inc()
	s.log.Info("logged in", "username", username)
	return nil
}

// Signup registers an account. It never changes the session; callers log
// in separately.
func (s *Store) Signup(ctx context.Context, req apiclient.SignupRequest) error {
	if err := s.validate.Struct(req); err != nil {
		metrics.SessionEventsTotal.WithLabelValues("signup", "invalid").Inc()
		return apiclient.Normalize(err, apiclient.KindAuth, "Signup failed")
	}
	if err := s.api.Signup(ctx, req); err != nil {
		metrics.SessionEventsTotal.WithLabelValues("signup", "error").Inc()
		return apiclient.Normalize(err, apiclient.KindAuth, "Signup failed")
	}
	metrics.SessionEventsTotal.WithLabelValues("signup", "ok").Inc()
	s.log.Info("signed up", "username", req.Username)
	return nil
}

// Logout clears the session in memory and in the cache. It is safe to call
// when already logged out. The in-memory session is cleared even when the
// cache cannot be updated; that error is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cur.Username
	s.cur = Session{}
	err := errors.Join(
		s.cache.Remove(ctx, TokenKey),
		s.cache.Remove(ctx, UsernameKey),
	)
	metrics.SessionEventsTotal.WithLabelValues("logout", "ok").Inc()
	if prev != "" {
		s.log.Info("logged out", "username", prev)
	}
	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// persist writes sess to the cache. An anonymous sess removes both keys.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context, sess Session) error {
	if !sess.Authenticated() {
		return errors.Join(s.cache.Remove(ctx, TokenKey), s.cache.Remove(ctx, UsernameKey))
	}
	if err := s.cache.Set(ctx, TokenKey, sess.Token); err != nil {
		return err
	}
	return s.cache.Set(ctx, UsernameKey, sess.Username)
}
