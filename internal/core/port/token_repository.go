package port

import (
	"context"
	"time"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// TokenRepository persists refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, token domain.RefreshToken) error
	// GetActiveByUser returns the user's refresh token with revoked_on still
	// null, or repository.ErrNotFound when none exists.
	GetActiveByUser(ctx context.Context, userID string) (*domain.RefreshToken, error)
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Revoke stamps revoked_on; tokens are never deleted.
	Revoke(ctx context.Context, id string, at time.Time) error
}
