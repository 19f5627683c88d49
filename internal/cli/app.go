package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/lunalog/internal/config"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/secretstore"
	"github.com/terraincognita07/lunalog/internal/services"
	"github.com/terraincognita07/lunalog/internal/session"
	"go.uber.org/zap"
)

const maxUnlockAttempts = 3

var ErrTooManyAttempts = errors.New("too many failed unlock attempts")

type Options struct {
	Config *config.Config
	Logger *zap.Logger
	In     io.Reader
	Out    io.Writer
	// Secrets overrides the store selected by Config.Secrets.
	Secrets secretstore.Store
}

// App wires the tracker core to a terminal.
type App struct {
	console     *Console
	repos       *db.Repositories
	tracker     *services.TrackerService
	credentials *services.CredentialService
	gate        *session.Gate
	reset       *services.ResetService
	exporter    *services.ExportService
	exportDir   string
	logger      *zap.Logger
	now         func() time.Time
	token       string
}

func NewApp(options Options) (*App, error) {
	if options.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := options.Config

	secrets := options.Secrets
	if secrets == nil {
		store, err := secretstore.New(cfg.Secrets.Backend, cfg.Secrets.Service, cfg.Secrets.Dir)
		if err != nil {
			return nil, fmt.Errorf("open secret store: %w", err)
		}
		secrets = store
	}

	repos, err := db.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	tracker := services.NewTrackerService(repos, logger)
	credentials := services.NewCredentialService(secrets, repos.Settings, logger).
		WithBcryptCost(cfg.Security.BcryptCost)
	gate, err := session.NewGate(credentials, cfg.Session.UnlockTTL, logger)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("create session gate: %w", err)
	}

	return &App{
		console:     NewConsole(options.In, options.Out),
		repos:       repos,
		tracker:     tracker,
		credentials: credentials,
		gate:        gate,
		reset:       services.NewResetService(tracker, credentials),
		exporter:    services.NewExportService(),
		exportDir:   cfg.Export.Dir,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (app *App) Close() error {
	return app.repos.Close()
}

// unlock asks for the password until it matches or attempts run out.
func (app *App) unlock(ctx context.Context) error {
	for attempt := 1; attempt <= maxUnlockAttempts; attempt++ {
		password, err := app.console.AskPassword("Password")
		if err != nil {
			return err
		}

		token, err := app.gate.Unlock(ctx, password)
		switch {
		case err == nil:
			app.token = token
			return nil
		case errors.Is(err, session.ErrSetupRequired):
			app.console.Println("No password is set up yet. Run `lunalog setup` first.")
			return err
		case errors.Is(err, session.ErrInvalidPassword):
			app.console.Println("Incorrect password.")
		default:
			return err
		}
	}
	return ErrTooManyAttempts
}

// ensureUnlocked re-prompts when the current token has expired or the
// session was locked.
func (app *App) ensureUnlocked(ctx context.Context) error {
	if err := app.gate.Authorize(app.token); err == nil {
		return nil
	}
	app.token = ""
	app.console.Println("Session locked.")
	return app.unlock(ctx)
}
