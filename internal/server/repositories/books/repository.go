// Package books provides persistence for saved-book entries across the
// three list kinds.
package books

import (
	"context"

	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

// Repository is the storage contract for saved-book lists.
type Repository interface {
	Add(ctx context.Context, kind models.ListKind, entry *models.BookEntry) error
	ListByOwner(ctx context.Context, kind models.ListKind, ownerEmail string) ([]models.BookEntry, error)
	Delete(ctx context.Context, kind models.ListKind, identifier string, ownerEmail string) error
}
