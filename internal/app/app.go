package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/memstore"
	"github.com/vk/gridframe/internal/sqlitestore"
	"github.com/vk/gridframe/internal/store"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. One App can run many scenario builds; per-build state never
// lives here.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	config      *Config
	catalog     *catalog.Catalog
	results     store.ResultsStore
	validations store.ValidationStore
	solver      Solver

	closer io.Closer
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and module
// catalog.
func New(outW io.Writer, cfg *Config, modules ...catalog.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	cat := catalog.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	logger.Debug("All type modules registered.", "count", len(modules))

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: cat,
		solver:  NoopSolver{},
	}

	if cfg.DBPath != "" {
		db, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening results database %s: %w", cfg.DBPath, err)
		}
		a.results = db
		a.validations = db
		a.closer = db
		logger.Debug("SQLite result store opened.", "path", cfg.DBPath)
	} else {
		mem := memstore.New()
		a.results = mem
		a.validations = mem
		logger.Debug("Using in-memory result store.")
	}

	return a, nil
}

// Catalog returns the application's module catalog. This is primarily for
// testing.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Results returns the results sink. This is primarily for testing.
func (a *App) Results() store.ResultsStore { return a.results }

// Validations returns the validation sink. This is primarily for testing.
func (a *App) Validations() store.ValidationStore { return a.validations }

// SetSolver swaps the solver bridge used for subsequent builds.
func (a *App) SetSolver(s Solver) { a.solver = s }

// Close releases the result store if it holds external resources.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
