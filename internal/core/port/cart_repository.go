package port

import (
	"context"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// CartRepository provides access to client carts and the items they hold.
type CartRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]domain.CartItemView, error)
	IsInCart(ctx context.Context, itemID, clientID string) (bool, error)
	ItemExists(ctx context.Context, itemID string) (bool, error)
	Add(ctx context.Context, cartItem domain.CartItem) error
	// Remove deletes the cart entry, returning repository.ErrNotFound when the
	// item is not in the client's cart.
	Remove(ctx context.Context, itemID, clientID string) error
}
