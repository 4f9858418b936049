package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/logging"
	"github.com/dmitrijs2005/bookworm/internal/server/config"
)

type ctxKey string

const dbConnKey ctxKey = "dbConn"

// SessionManager checks one connection out of the pool for every inbound
// request, configures it, and guarantees it is returned exactly once when
// the request finishes, whatever the outcome. All query execution for a
// request is pinned to its connection; no handler can hold one across
// requests.
type SessionManager struct {
	db               *sql.DB
	checkoutTimeout  time.Duration
	statementTimeout time.Duration
	timeZone         string
	logger           logging.Logger
}

func NewSessionManager(db *sql.DB, cfg *config.Config, logger logging.Logger) *SessionManager {
	return &SessionManager{
		db:               db,
		checkoutTimeout:  cfg.DBCheckoutTimeout,
		statementTimeout: cfg.StatementTimeout,
		timeZone:         cfg.SessionTimeZone,
		logger:           logger.With("module", "dbsession"),
	}
}

// Middleware acquires and configures the request's database session before
// any handler runs. If checkout or configuration fails the request fails
// fast with a generic error and no handler executes; the deferred Close
// returns the connection to the pool on every path, including panics
// recovered further up the chain.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkoutCtx, cancel := context.WithTimeout(r.Context(), m.checkoutTimeout)
		conn, err := m.db.Conn(checkoutCtx)
		cancel()
		if err != nil {
			m.logger.Error(r.Context(), "db session checkout failed", "error", err)
			respondJSON(w, http.StatusInternalServerError,
				Envelope{Success: false, Error: "service unavailable", Data: nil})
			return
		}
		defer conn.Close()

		if err := m.configure(r.Context(), conn); err != nil {
			m.logger.Error(r.Context(), "db session configuration failed", "error", err)
			respondJSON(w, http.StatusInternalServerError,
				Envelope{Success: false, Error: "service unavailable", Data: nil})
			return
		}

		ctx := context.WithValue(r.Context(), dbConnKey, conn)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// configure applies the fixed per-session settings: the service time zone
// and a statement timeout bounding every query on the session. Values come
// from startup configuration, never from the request.
func (m *SessionManager) configure(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET TIME ZONE '%s'", m.timeZone)); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET statement_timeout = %d", m.statementTimeout.Milliseconds())); err != nil {
		return err
	}
	return nil
}

// SessionFromContext returns the request's pinned connection. It panics if
// no session middleware ran, which would be a routing bug.
func SessionFromContext(ctx context.Context) *sql.Conn {
	conn, ok := ctx.Value(dbConnKey).(*sql.Conn)
	if !ok {
		panic("no database session in request context")
	}
	return conn
}
