package port

import (
	"context"
	"time"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// UserRepository provides access to user records and their claims.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetProfiles resolves display data for a batch of user ids.
	GetProfiles(ctx context.Context, ids []string) (map[string]domain.User, error)
	// SetLockoutEnd updates the lockout-end timestamp; nil clears the block.
	SetLockoutEnd(ctx context.Context, id string, end *time.Time) error
	Delete(ctx context.Context, id string) error

	// AddClaims attaches the provided claims in one batch.
	AddClaims(ctx context.Context, claims []domain.UserClaim) error
	GetClaims(ctx context.Context, userID string) ([]domain.UserClaim, error)
}
