// Package repomanager wires repository constructors to a database handle
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookworm/internal/dbx"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to an arbitrary DBTX — the
// shared pool, a request-pinned connection, or a transaction — so services
// decide per call which handle their queries run on.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
