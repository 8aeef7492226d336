// Package profile caches the profile currently on display, which may belong
// to any user, and mediates updates to the session owner's own profile.
package profile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/metrics"
	"github.com/joestump/linkfolio/internal/session"
)

// View is a snapshot of the store. Profile is nil until the first
// successful fetch. A non-empty Error means the last fetch failed; Profile
// then still holds the last successful result.
type View struct {
	Profile *apiclient.Profile `json:"profile"`
	Error   string             `json:"error,omitempty"`
}

func (v View) clone() View {
	return View{Profile: v.Profile.Clone(), Error: v.Error}
}

// API is the subset of the remote API the profile store calls.
type API interface {
	GetProfile(ctx context.Context, token, username string) (*apiclient.Profile, error)
	UpdateProfile(ctx context.Context, token string, req apiclient.UpdateProfileRequest) error
	DeleteAccount(ctx context.Context, token string) error
}

// Sessions is read for the caller's identity and cleared on account deletion.
type Sessions interface {
	Snapshot() session.Session
	Logout(ctx context.Context) error
}

type Store struct {
	api      API
	sessions Sessions
	log      *slog.Logger
	pub      message.Publisher

	mu   sync.RWMutex
	view View
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithPublisher publishes every new snapshot on TopicUpdated.
func WithPublisher(p message.Publisher) Option {
	return func(s *Store) { s.pub = p }
}

func NewStore(api API, sessions Sessions, opts ...Option) *Store {
	return NewStoreWithState(api, sessions, View{}, opts...)
}

// NewStoreWithState creates a store whose initial snapshot is v.
func NewStoreWithState(api API, sessions Sessions, v View, opts ...Option) *Store {
	s := &Store{api: api, sessions: sessions, log: slog.Default(), view: v.clone()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current view.
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.clone()
}

// FetchProfile loads username's profile and replaces the cached one
// wholesale. On failure the cached profile is kept, Error is set to the
// normalized message, and the returned ProfileError unwraps to the
// original failure.
//
// Concurrent fetches are not ordered: whichever response arrives last wins.
func (s *Store) FetchProfile(ctx context.Context, username string) (View, error) {
	s.mu.Lock()
	s.view.Error = ""
	s.mu.Unlock()

	token := s.sessions.Snapshot().Token
	p, err := s.api.GetProfile(ctx, token, username)
	if err != nil {
		e := apiclient.Normalize(err, apiclient.KindProfile, "Failed to fetch profile")
		metrics.ProfileFetchesTotal.WithLabelValues("error").Inc()
		s.log.Error("fetch profile", "username", username, "error", e.Message, "status", e.Status)

		v := s.update(func(v *View) { v.Error = e.Message })
		return v, e
	}

	metrics.ProfileFetchesTotal.WithLabelValues("ok").Inc()
	v := s.update(func(v *View) {
		v.Profile = p
		v.Error = ""
	})
	return v, nil
}

// UpdateProfile updates the session owner's profile and then re-reads it.
// A failed update is not followed by a refresh.
func (s *Store) UpdateProfile(ctx context.Context, req apiclient.UpdateProfileRequest) error {
	sess := s.sessions.Snapshot()
	if err := s.api.UpdateProfile(ctx, sess.Token, req); err != nil {
		return apiclient.Normalize(err, apiclient.KindProfile, "Failed to update profile")
	}

	_, err := s.FetchProfile(ctx, s.sessions.Snapshot().Username)
	return err
}

// DeleteAccount deletes the session owner's account and then logs out.
// The session is left intact if the server does not confirm the deletion.
func (s *Store) DeleteAccount(ctx context.Context) error {
	sess := s.sessions.Snapshot()
	if err := s.api.DeleteAccount(ctx, sess.Token); err != nil {
		return apiclient.Normalize(err, apiclient.KindProfile, "Failed to delete account")
	}
	s.log.Info("account deleted", "username", sess.Username)

	if err := s.sessions.Logout(ctx); err != nil {
		s.log.Warn("logout after account deletion", "error", err)
	}
	s.update(func(v *View) {
		if v.Profile != nil && v.Profile.Username == sess.Username {
			*v = View{}
		}
	})
	return nil
}

// update applies fn under the lock and publishes the resulting snapshot.
func (s *Store) update(fn func(*View)) View {
	s.mu.Lock()
	fn(&s.view)
	v := s.view.clone()
	s.mu.Unlock()

	s.publish(v)
	return v
}
