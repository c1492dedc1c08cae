// Package commands implements the newsctl command tree. Every invocation
// restores the session from durable storage, runs the startup verification,
// and routes protected commands through the same guard the portal UI uses.
package commands

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/articles"
	"github.com/beritahub/go-portal-client/categories"
	"github.com/beritahub/go-portal-client/comments"
	"github.com/beritahub/go-portal-client/guard"
	"github.com/beritahub/go-portal-client/internal/config"
	"github.com/beritahub/go-portal-client/session"
	"github.com/beritahub/go-portal-client/storage"
	"github.com/beritahub/go-portal-client/users"
)

// App bundles the wired client stack shared by all commands.
type App struct {
	Config     config.Config
	Session    *session.Store
	Guard      *guard.Guard
	Users      *users.Service
	Articles   *articles.Service
	Categories *categories.Service
	Comments   *comments.Service
}

// termNavigator performs the navigations the portal router would: ordinary
// transitions are logged, the hard reload after a dead session is loud.
type termNavigator struct {
	log zerolog.Logger
}

func (n termNavigator) Navigate(path string) {
	n.log.Info().Str("to", path).Msg("navigate")
}

func (n termNavigator) Reload(path string) {
	n.log.Warn().Str("to", path).Msg("session expired, full reload required")
}

// init wires storage, client, services, session, and guard, then settles the
// session so guards decide on verified state.
func (a *App) init(ctx context.Context) error {
	if a.Session != nil {
		return nil
	}

	a.Config = config.New()
	nav := termNavigator{log: log.Logger}

	store, err := storage.NewFileStorage(a.Config.GetDataFolder())
	if err != nil {
		return errors.Wrap(err, "[App.init]")
	}

	client, err := api.New(a.Config.GetAPIBaseURL(), store,
		api.WithLogger(log.Logger),
		api.WithSessionExpiredHandler(func() {
			nav.Reload(session.RouteLogin)
		}),
	)
	if err != nil {
		return errors.Wrap(err, "[App.init]")
	}

	if a.Users, err = users.NewService(client); err != nil {
		return errors.Wrap(err, "[App.init]")
	}
	if a.Articles, err = articles.NewService(client); err != nil {
		return errors.Wrap(err, "[App.init]")
	}
	if a.Categories, err = categories.NewService(client); err != nil {
		return errors.Wrap(err, "[App.init]")
	}
	if a.Comments, err = comments.NewService(client); err != nil {
		return errors.Wrap(err, "[App.init]")
	}

	if a.Session, err = session.NewStore(store, a.Users, nav, session.WithLogger(log.Logger)); err != nil {
		return errors.Wrap(err, "[App.init]")
	}
	if a.Guard, err = guard.New(a.Session); err != nil {
		return errors.Wrap(err, "[App.init]")
	}

	a.Session.Verify(ctx)
	return nil
}

// requireRoles runs the guard for a protected command and translates a
// redirect decision into the error the terminal shows.
func (a *App) requireRoles(roles ...users.Role) error {
	switch outcome := a.Guard.Check(roles...); outcome {
	case guard.Render:
		return nil
	case guard.Placeholder:
		return errors.New("session is still loading, try again")
	case guard.RedirectLogin:
		return errors.New("not logged in (redirecting to /login) - run 'newsctl login' first")
	default:
		return errors.Errorf("access denied for role, redirecting to %s", outcome.Target())
	}
}
