package books

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookworm/internal/dbx"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX. The three list
// tables are structurally identical; the table name is always obtained from
// ListKind.Table(), which only yields the fixed trusted names.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, kind models.ListKind, entry *models.BookEntry) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (title, author, publisher, year, identifier, thumbnail, user_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`, kind.Table())

	_, err := r.db.ExecContext(ctx, query,
		entry.Title, entry.Author, entry.Publisher, entry.Year,
		entry.Identifier, entry.Thumbnail, entry.OwnerEmail)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, kind models.ListKind, ownerEmail string) ([]models.BookEntry, error) {
	query := fmt.Sprintf(
		`SELECT id, title, author, publisher, year, identifier, thumbnail, user_email
		 FROM %s
		 WHERE user_email = $1
		 ORDER BY id`, kind.Table())

	rows, err := r.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := []models.BookEntry{}
	for rows.Next() {
		var e models.BookEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Author, &e.Publisher,
			&e.Year, &e.Identifier, &e.Thumbnail, &e.OwnerEmail); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

// Delete removes entries matching (identifier, owner) from the kind's table.
// Deleting an absent entry is not an error, which makes the operation
// idempotent from the caller's point of view.
func (r *PostgresRepository) Delete(ctx context.Context, kind models.ListKind, identifier string, ownerEmail string) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE identifier = $1 AND user_email = $2`, kind.Table())

	if _, err := r.db.ExecContext(ctx, query, identifier, ownerEmail); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
