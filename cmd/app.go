package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/client"
	"github.com/andrejsstepanovs/collab/config"
	"github.com/andrejsstepanovs/collab/db"
	"github.com/andrejsstepanovs/collab/logger"
	"github.com/andrejsstepanovs/collab/notification"
	"github.com/andrejsstepanovs/collab/plagiarism"
	"github.com/andrejsstepanovs/collab/project"
	"github.com/andrejsstepanovs/collab/session"
	"github.com/andrejsstepanovs/collab/upload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the dependencies shared by all commands. It is opened before a
// command runs and closed after it.
type App struct {
	configPath string
	verbose    bool

	cfg           *config.Config
	log           zerolog.Logger
	store         *db.Store
	api           *client.Client
	router        *session.Router
	guard         *session.Guard
	uploads       *upload.Workflow
	checker       *plagiarism.Checker
	notifications *notification.Center
	projects      *project.Service
}

func (a *App) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Env, a.verbose)

	store, err := db.Open(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	a.store = store

	a.api = client.New(cfg.APIURL, store, a.log, client.WithTimeout(cfg.RequestTimeout))
	a.router = session.NewRouter(session.RouteLanding)
	a.guard = session.NewGuard(store, a.api, a.router, a.log)
	a.api.OnUnauthorized(a.guard.HandleUnauthorized)
	a.guard.Restore(ctx, session.RouteLanding)

	a.uploads = upload.New(a.api, a.log,
		upload.WithTimeout(cfg.UploadTimeout),
		upload.WithResolver(a.api),
	)
	a.checker = plagiarism.New(a.api, cfg.UploadTimeout, a.log)
	a.notifications = notification.NewCenter()
	a.projects = project.NewService(project.NewStore(), a.notifications, a.log)

	a.log.Debug().Str("api", cfg.APIURL).Bool("authenticated", a.guard.Authenticated()).Msg("app ready")
	return nil
}

func (a *App) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("error closing data file")
	}
	a.store = nil
}

// enter navigates to route and reports whether the command may run there.
func (a *App) enter(route session.Route) bool {
	landed := a.guard.Navigate(route)
	if landed == route {
		return true
	}

	switch landed {
	case session.RouteLogin:
		fmt.Println("You are not signed in. Run `collab login` first.")
	case session.RouteHome:
		fmt.Println("You are already signed in. Run `collab logout` to switch accounts.")
	default:
		fmt.Printf("Redirected to %s\n", landed)
	}
	return false
}

// fail prints the user facing message of err and exits.
func (a *App) fail(prefix string, err error) {
	a.log.Debug().Err(err).Msg(prefix)
	fmt.Printf("%s: %s\n", prefix, apperrors.UserMessage(err))
	a.close()
	os.Exit(1)
}

func (a *App) stringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		a.fail("Invalid flag", err)
	}
	return v
}

func (a *App) intFlag(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		a.fail("Invalid flag", err)
	}
	return v
}
