package services

import (
	"context"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/dbx"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/repomanager"
)

// BookService manages the three saved-book lists. The owner email always
// comes from verified claims; clients only pick the list kind, which is
// validated against the closed enumeration before any SQL is built.
type BookService struct {
	repomanager repomanager.RepositoryManager
}

func NewBookService(m repomanager.RepositoryManager) *BookService {
	return &BookService{repomanager: m}
}

// Add files the entry into the list named by kind for ownerEmail.
func (s *BookService) Add(ctx context.Context, db dbx.DBTX, kind string, entry *models.BookEntry, ownerEmail string) (models.ListKind, error) {
	k, err := models.ParseListKind(kind)
	if err != nil {
		return "", err
	}

	entry.OwnerEmail = ownerEmail
	if err := s.repomanager.Books(db).Add(ctx, k, entry); err != nil {
		return "", common.ErrorInternal
	}
	return k, nil
}

// List returns ownerEmail's entries in the given list.
func (s *BookService) List(ctx context.Context, db dbx.DBTX, kind models.ListKind, ownerEmail string) ([]models.BookEntry, error) {
	entries, err := s.repomanager.Books(db).ListByOwner(ctx, kind, ownerEmail)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return entries, nil
}

// Delete removes the entry with the given catalog identifier from
// ownerEmail's list. Deleting an entry that is not there still succeeds.
func (s *BookService) Delete(ctx context.Context, db dbx.DBTX, kind string, identifier string, ownerEmail string) error {
	k, err := models.ParseListKind(kind)
	if err != nil {
		return err
	}

	if err := s.repomanager.Books(db).Delete(ctx, k, identifier, ownerEmail); err != nil {
		return common.ErrorInternal
	}
	return nil
}
