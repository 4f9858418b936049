// Package server initializes and runs the BookWorm application server.
// It opens the database pool, applies schema migrations, wires the services,
// and starts the HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/bookworm/internal/logging"
	"github.com/dmitrijs2005/bookworm/internal/server/catalog"
	"github.com/dmitrijs2005/bookworm/internal/server/config"
	"github.com/dmitrijs2005/bookworm/internal/server/httpapi"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookworm/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	bookService *services.BookService
	catalog     *catalog.Client
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	m := repomanager.NewPostgresRepositoryManager()

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us := services.NewUserService(m, cfg)
	bs := services.NewBookService(m)
	cc := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogTimeout)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: us,
		bookService: bs,
		catalog:     cc,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.logger, app.db, app.userService, app.bookService, app.catalog)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
