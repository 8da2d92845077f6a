package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var (
	// ErrItemNotFound indicates the item id does not refer to a listing.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemAlreadyInCart indicates the item is already in the client's cart.
	ErrItemAlreadyInCart = errors.New("item already in cart")
	// ErrItemNotInCart indicates the item is not in the client's cart.
	ErrItemNotInCart = errors.New("item not in cart")
)

// CartService manages the per-client rental cart.
type CartService struct {
	cart port.CartRepository
	now  func() time.Time
}

// NewCartService constructs a CartService instance.
func NewCartService(cart port.CartRepository) *CartService {
	return &CartService{cart: cart, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (s *CartService) WithClock(now func() time.Time) *CartService {
	s.now = now
	return s
}

// GetCartItems returns the client's cart projected to item display data.
func (s *CartService) GetCartItems(ctx context.Context, clientID string) ([]domain.CartItemView, error) {
	views, err := s.cart.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return views, nil
}

// IsInCart reports whether the item is in the client's cart.
func (s *CartService) IsInCart(ctx context.Context, itemID, clientID string) (bool, error) {
	found, err := s.cart.IsInCart(ctx, itemID, clientID)
	if err != nil {
		return false, fmt.Errorf("check cart: %w", err)
	}
	return found, nil
}

// AddToCart places the item in the client's cart. The item must exist and
// must not already be in the cart.
func (s *CartService) AddToCart(ctx context.Context, itemID, clientID string) error {
	exists, err := s.cart.ItemExists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if !exists {
		return ErrItemNotFound
	}

	inCart, err := s.cart.IsInCart(ctx, itemID, clientID)
	if err != nil {
		return fmt.Errorf("check cart: %w", err)
	}
	if inCart {
		return ErrItemAlreadyInCart
	}

	cartItem := domain.CartItem{
		ID:       uuid.NewString(),
		ItemID:   itemID,
		ClientID: clientID,
		AddedAt:  s.now().UTC(),
	}
	if err := s.cart.Add(ctx, cartItem); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

// RemoveCartItem takes the item out of the client's cart.
func (s *CartService) RemoveCartItem(ctx context.Context, itemID, clientID string) error {
	if err := s.cart.Remove(ctx, itemID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotInCart
		}
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}
