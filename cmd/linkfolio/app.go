package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/cache"
	"github.com/joestump/linkfolio/internal/config"
	"github.com/joestump/linkfolio/internal/links"
	"github.com/joestump/linkfolio/internal/profile"
	"github.com/joestump/linkfolio/internal/session"
)

var errNotLoggedIn = errors.New("not logged in: run `linkfolio login <username>` first")

// app wires the three stores for one CLI invocation.
type app struct {
	sessions *session.Store
	profiles *profile.Store
	links    *links.Store
	closer   io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	c, closer, err := cache.Open(cfg)
	if err != nil {
		return nil, err
	}

	client := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout))
	sessions, err := session.NewStore(ctx, client, c, session.WithLogger(logger))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	profiles := profile.NewStore(client, sessions, profile.WithLogger(logger))

	return &app{
		sessions: sessions,
		profiles: profiles,
		links:    links.NewStore(client, profiles, sessions, links.WithLogger(logger)),
		closer:   closer,
	}, nil
}

func (a *app) Close() error { return a.closer.Close() }

// requireAuth guards commands that act on the session owner's data.
func (a *app) requireAuth() error {
	if !a.sessions.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// withApp runs fn with a freshly composed app and closes it afterwards.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}
