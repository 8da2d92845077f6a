package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

// CartRepository implements port.CartRepository using PostgreSQL.
type CartRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCartRepository wires a PostgreSQL-backed cart repository.
func NewCartRepository(exec pgExecutor) *CartRepository {
	return &CartRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByClient returns the client's cart joined with item display data.
func (r *CartRepository) ListByClient(ctx context.Context, clientID string) ([]domain.CartItemView, error) {
	stmt, args, err := r.builder.
		Select("i.id", "i.name", "i.price", "i.image").
		From("rental.cart_items c").
		Join("rental.items i ON i.id = c.item_id").
		Where(squirrel.Eq{"c.client_id": clientID}).
		OrderBy("c.added_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select cart sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	defer rows.Close()

	var views []domain.CartItemView
	for rows.Next() {
		var (
			view  domain.CartItemView
			image sql.NullString
		)
		if err := rows.Scan(&view.ItemID, &view.Name, &view.Price, &image); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if image.Valid {
			value := image.String
			view.Image = &value
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return views, nil
}

// IsInCart reports whether the item is already in the client's cart.
func (r *CartRepository) IsInCart(ctx context.Context, itemID, clientID string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("rental.cart_items").
		Where(squirrel.Eq{"item_id": itemID, "client_id": clientID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select in-cart sql: %w", err)
	}

	return r.exists(ctx, stmt, args)
}

// ItemExists reports whether the item id refers to a known listing.
func (r *CartRepository) ItemExists(ctx context.Context, itemID string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("rental.items").
		Where(squirrel.Eq{"id": itemID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select item sql: %w", err)
	}

	return r.exists(ctx, stmt, args)
}

// Add inserts a cart entry linking the item to the client.
func (r *CartRepository) Add(ctx context.Context, cartItem domain.CartItem) error {
	stmt, args, err := r.builder.Insert("rental.cart_items").
		Columns("id", "item_id", "client_id", "added_at").
		Values(cartItem.ID, cartItem.ItemID, cartItem.ClientID, cartItem.AddedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert cart item sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}

	return nil
}

// Remove deletes the item from the client's cart.
func (r *CartRepository) Remove(ctx context.Context, itemID, clientID string) error {
	stmt, args, err := r.builder.Delete("rental.cart_items").
		Where(squirrel.Eq{"item_id": itemID, "client_id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete cart item sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *CartRepository) exists(ctx context.Context, stmt string, args []any) (bool, error) {
	var one int
	err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select existence: %w", err)
	}
	return true, nil
}

var _ port.CartRepository = (*CartRepository)(nil)
