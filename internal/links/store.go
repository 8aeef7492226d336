// Package links mutates the session owner's links. It owns no state of its
// own: after every successful mutation it asks the profile store to re-read
// the owner's profile, which holds the authoritative link list.
package links

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/metrics"
	"github.com/joestump/linkfolio/internal/profile"
	"github.com/joestump/linkfolio/internal/session"
)

// API is the subset of the remote API the link store calls.
type API interface {
	CreateLink(ctx context.Context, token string, req apiclient.LinkRequest) error
	UpdateLink(ctx context.Context, token string, id uint, req apiclient.LinkRequest) error
	DeleteLink(ctx context.Context, token string, id uint) error
	TrackClick(ctx context.Context, token string, id uint) error
}

// Profiles is refreshed after each mutation.
type Profiles interface {
	FetchProfile(ctx context.Context, username string) (profile.View, error)
}

// Sessions supplies the caller's token and username at call time.
type Sessions interface {
	Snapshot() session.Session
}

type Store struct {
	api      API
	profiles Profiles
	sessions Sessions
	log      *slog.Logger

	pending atomic.Int64
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(api API, profiles Profiles, sessions Sessions, opts ...Option) *Store {
	s := &Store{api: api, profiles: profiles, sessions: sessions, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending returns the number of mutations currently awaiting a response or
// a refresh.
func (s *Store) Pending() int { return int(s.pending.Load()) }

// CreateLink creates a link from d on the owner's profile.
func (s *Store) CreateLink(ctx context.Context, d Draft) error {
	return s.mutate(ctx, "create", d, func(token string) error {
		return s.api.CreateLink(ctx, token, d.request())
	})
}

// UpdateLink replaces the title and URL of link id.
func (s *Store) UpdateLink(ctx context.Context, id uint, d Draft) error {
	return s.mutate(ctx, "update", d, func(token string) error {
		return s.api.UpdateLink(ctx, token, id, d.request())
	})
}

// DeleteLink removes link id.
func (s *Store) DeleteLink(ctx context.Context, id uint) error {
	return s.mutate(ctx, "delete", nil, func(token string) error {
		return s.api.DeleteLink(ctx, token, id)
	})
}

// TrackClick records a click on link id. It never fails: click tracking
// must not stand between the user and the link target. Failures are logged
// and counted, and the profile is only refreshed on success.
func (s *Store) TrackClick(ctx context.Context, id uint) {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := s.api.TrackClick(ctx, s.sessions.Snapshot().Token, id); err != nil {
		metrics.ClickTrackFailuresTotal.Inc()
		s.log.Warn("track link click", "link_id", id, "error", err)
		return
	}
	if err := s.refresh(ctx); err != nil {
		s.log.Warn("refresh after click", "link_id", id, "error", err)
	}
}

// checker is implemented by Draft; DeleteLink passes nil.
type checker interface{ Validate() error }

// mutate runs call and, only after it succeeds, refreshes the owner's
// profile. A failed call is never followed by a refresh.
func (s *Store) mutate(ctx context.Context, op string, draft checker, call func(token string) error) error {
	fallback := fmt.Sprintf("Failed to %s link", op)

	if draft != nil {
		if err := draft.Validate(); err != nil {
			metrics.LinkMutationsTotal.WithLabelValues(op, "invalid").Inc()
			return &apiclient.Error{Kind: apiclient.KindLink, Message: fmt.Sprintf("%s: %v", fallback, err), Err: err}
		}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := call(s.sessions.Snapshot().Token); err != nil {
		metrics.LinkMutationsTotal.WithLabelValues(op, "error").Inc()
		return apiclient.Normalize(err, apiclient.KindLink, fallback)
	}
	metrics.LinkMutationsTotal.WithLabelValues(op, "ok").Inc()

	if err := s.refresh(ctx); err != nil {
		return apiclient.Normalize(err, apiclient.KindLink, fallback)
	}
	return nil
}

// refresh re-reads the profile of whoever owns the session now. If the
// session ended while the mutation was in flight there is nothing to refresh.
func (s *Store) refresh(ctx context.Context) error {
	username := s.sessions.Snapshot().Username
	if username == "" {
		s.log.Debug("skip profile refresh: no session")
		return nil
	}
	_, err := s.profiles.FetchProfile(ctx, username)
	return err
}
