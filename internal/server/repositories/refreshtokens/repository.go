// Package refreshtokens provides persistence for server-stored refresh
// tokens used in the authentication flow.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

// Repository is the storage contract for refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
