package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/khrees2412/placement/internal/config"
	"github.com/khrees2412/placement/internal/events"
	"github.com/khrees2412/placement/internal/persist"
	"github.com/khrees2412/placement/internal/sheet"
	"github.com/khrees2412/placement/internal/tracker"
)

// App is the dependency container for the CLI application
type App struct {
	Config *config.Config
	Store  *tracker.Store
	Events events.Publisher
	Logger *slog.Logger

	sheet    persist.Sheet
	savedRev uint64
}

// Option configures an App built with New.
type Option func(*App)

// WithSheet uses sh instead of opening the configured backend.
func WithSheet(sh persist.Sheet) Option {
	return func(a *App) { a.sheet = sh }
}

// WithPublisher replaces the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(a *App) { a.Events = p }
}

// WithLogger replaces the stderr logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.Logger = logger }
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return New(ctx, config.AppConfig)
}

// New builds an App from cfg with an empty board.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration")
	}

	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.LogLevel),
		}))
	}
	a.Store = tracker.NewStore(tracker.WithLogger(a.Logger))

	if a.Events == nil {
		a.Events = events.Nop{}
		if cfg.RedisURL != "" {
			p, err := events.NewRedisPublisher(ctx, cfg.RedisURL)
			if err != nil {
				a.Logger.Warn("board events disabled", "err", err)
			} else {
				a.Events = p
			}
		}
	}

	return a, nil
}

// Sheet returns the configured sheet backend, opening it on first use.
func (a *App) Sheet() (persist.Sheet, error) {
	if a.sheet != nil {
		return a.sheet, nil
	}

	var (
		sh  persist.Sheet
		err error
	)
	switch strings.ToLower(a.Config.SheetBackend) {
	case config.BackendSQLite, "":
		sh, err = sheet.OpenSQLite(a.Config.SheetPath, a.Config.SheetTab)
	case config.BackendNotion:
		sh, err = sheet.NewNotion(a.Config.NotionToken, a.Config.NotionDatabaseID)
	default:
		err = fmt.Errorf("unknown sheet backend %q", a.Config.SheetBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", persist.ErrPersistenceUnavailable, err)
	}

	a.sheet = sh
	return sh, nil
}

// Close closes all resources
func (a *App) Close() error {
	var firstErr error
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			firstErr = err
		}
	}
	if c, ok := a.sheet.(io.Closer); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
