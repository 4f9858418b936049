// Package httpapi exposes the BookWorm HTTP surface: the public account and
// search endpoints plus the token-protected list and profile endpoints.
//
// Every request flows through the same pipeline: close-body → request id →
// logging → recover → database session checkout → (auth gate on protected
// routes) → exactly one handler.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/logging"
	"github.com/dmitrijs2005/bookworm/internal/server/catalog"
	"github.com/dmitrijs2005/bookworm/internal/server/config"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
	"github.com/dmitrijs2005/bookworm/internal/server/services"
	"github.com/gorilla/mux"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	books     *services.BookService
	catalog   *catalog.Client
	sessions  *SessionManager
	jwtSecret []byte
	router    *mux.Router
}

func NewServer(cfg *config.Config, l logging.Logger, db *sql.DB, us *services.UserService, bs *services.BookService, cc *catalog.Client) *Server {
	s := &Server{
		address:   cfg.EndpointAddr,
		logger:    l.With("module", "httpapi"),
		users:     us,
		books:     bs,
		catalog:   cc,
		sessions:  NewSessionManager(db, cfg, l),
		jwtSecret: []byte(cfg.SecretKey),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter wires the middleware chain and the route table. Middleware is
// executed in registration order; closeBody MUST be registered first.
func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(true)

	r.Use(closeBodyMiddleware)
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.sessions.Middleware)

	// Public routes.
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/log-in", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/log-out", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/refresh-token", s.handleRefreshToken).Methods(http.MethodPost)
	r.HandleFunc("/search-books", s.handleSearchBooks).Methods(http.MethodGet)

	// Protected subrouter: inherits the chain above and adds the auth gate.
	protected := r.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)

	protected.HandleFunc("/add-to-list", s.handleAddToList).Methods(http.MethodPost)
	protected.HandleFunc("/fav-books", s.handleListBooks(models.ListFavorites)).Methods(http.MethodGet)
	protected.HandleFunc("/finished-books", s.handleListBooks(models.ListFinished)).Methods(http.MethodGet)
	protected.HandleFunc("/wishlist", s.handleListBooks(models.ListWishlist)).Methods(http.MethodGet)
	protected.HandleFunc("/delete", s.handleDeleteBook).Methods(http.MethodDelete)
	protected.HandleFunc("/user-data", s.handleUserData).Methods(http.MethodGet)
	protected.HandleFunc("/update-user", s.handleUpdateUser).Methods(http.MethodPut)
	protected.HandleFunc("/update-password", s.handleUpdatePassword).Methods(http.MethodPut)

	return r
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

const shutdownTimeout = 10 * time.Second
