package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/app"
	"github.com/dotoki2k/terminal-blog/blog"
	"github.com/dotoki2k/terminal-blog/client"
	"github.com/dotoki2k/terminal-blog/config"
	"github.com/dotoki2k/terminal-blog/gitstore"
	"github.com/dotoki2k/terminal-blog/localstore"
	"github.com/dotoki2k/terminal-blog/terminal"
)

// backend is the content store selected by configuration.
type backend struct {
	name   string
	store  blog.Store // nil when the store is not configured
	signIn app.SignInFunc
	close  func() error
}

// Close releases the store.
func (b backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// signInFailed runs the startup sign-in, if the store has one, and reports
// whether the connectivity notice belongs in the log. Anonymous sign-in being
// admin-only is not a failure.
func (b backend) signInFailed(ctx context.Context) bool {
	if b.signIn == nil {
		return false
	}
	id, err := b.signIn(ctx)
	switch {
	case err == nil:
		logger.Info("signed in anonymously", zap.String("user_id", id))
		return false
	case errors.Is(err, client.ErrAdminRestricted):
		logger.Debug("anonymous sign-in is admin-only; continuing without a token")
		return false
	default:
		logger.Warn("sign-in failed", zap.Error(err))
		return true
	}
}

func openBackend(ctx context.Context) (backend, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := localstore.Open(cfg.DBPath, logger)
		if err != nil {
			return backend{}, err
		}
		return backend{name: "sqlite", store: s, close: s.Close}, nil

	case config.StoreGit:
		s, err := gitstore.Open(ctx, gitstore.Options{URL: cfg.GitURL, Dir: cfg.GitDir, Subdir: cfg.GitSubdir}, logger)
		if err != nil {
			return backend{}, err
		}
		return backend{name: "git", store: s}, nil

	case config.StoreFirestore, "":
		if cfg.ProjectID == "" {
			// Commands report that the database is not ready.
			logger.Warn("firestore project id not configured")
			return backend{name: "firestore"}, nil
		}
		c := client.New(cfg.ProjectID, cfg.APIKey)
		if cfg.FirestoreURL != "" {
			c.BaseURL = cfg.FirestoreURL
		}
		if cfg.AuthURL != "" {
			c.AuthURL = cfg.AuthURL
		}
		signIn := func(ctx context.Context) (string, error) {
			resp, err := c.SignInAnonymously(ctx)
			if err != nil {
				return "", err
			}
			return resp.LocalID, nil
		}
		return backend{name: "firestore", store: client.NewPostStore(c, cfg.Collection), signIn: signIn}, nil

	default:
		return backend{}, fmt.Errorf("unknown store %q (want firestore, sqlite or git)", cfg.Store)
	}
}

func newInterpreter(store blog.Store) *terminal.Interpreter {
	opts := []terminal.Option{
		terminal.WithLogger(logger.Named("terminal")),
		terminal.WithCommandTimeout(cfg.Timeout()),
		terminal.WithAbout(aboutFromConfig(cfg)),
	}
	if cfg.BlogTitle != "" {
		opts = append(opts, terminal.WithBlogTitle(cfg.BlogTitle))
	}
	logger.Debug("interpreter ready", zap.Duration("command_timeout", cfg.Timeout()))
	return terminal.New(store, opts...)
}

func aboutFromConfig(c config.Config) terminal.About {
	about := terminal.DefaultAbout
	if c.AboutName != "" {
		about.BlogName = c.AboutName
	}
	if c.AboutBio != "" {
		about.Bio = c.AboutBio
	}
	if c.GitHub != "" {
		about.GitHub = c.GitHub
	}
	if c.GitHubURL != "" {
		about.GitHubURL = c.GitHubURL
	}
	return about
}
