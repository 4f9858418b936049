// Package users provides persistence for account records.
package users

import (
	"context"

	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

// Repository is the storage contract for user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UserNameExists(ctx context.Context, userName string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateAttribute(ctx context.Context, email string, attr models.UserAttribute, value string) error
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
