package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var tokenColumns = []string{
	"id",
	"user_id",
	"token",
	"created_on",
	"expires_on",
	"revoked_on",
}

// TokenRepository implements port.TokenRepository using PostgreSQL.
type TokenRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenRepository wires a PostgreSQL-backed refresh token repository.
func NewTokenRepository(exec pgExecutor) *TokenRepository {
	return &TokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a freshly minted refresh token.
func (r *TokenRepository) Create(ctx context.Context, token domain.RefreshToken) error {
	stmt, args, err := r.builder.Insert("rental.refresh_tokens").
		Columns(tokenColumns...).
		Values(
			token.ID,
			token.UserID,
			token.Token,
			token.CreatedOn,
			token.ExpiresOn,
			token.RevokedOn,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert refresh token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetActiveByUser returns the user's latest non-revoked token. Expiry is not
// part of the predicate; callers decide what an expired-but-unrevoked token
// means for their flow.
func (r *TokenRepository) GetActiveByUser(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	stmt, args, err := r.builder.
		Select(tokenColumns...).
		From("rental.refresh_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		Where("revoked_on IS NULL").
		OrderBy("created_on DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select active token sql: %w", err)
	}

	return scanToken(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByToken looks a refresh token up by its opaque value.
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	stmt, args, err := r.builder.
		Select(tokenColumns...).
		From("rental.refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select token sql: %w", err)
	}

	return scanToken(r.exec.QueryRow(ctx, stmt, args...))
}

// Revoke stamps the token's revocation time.
func (r *TokenRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("rental.refresh_tokens").
		Set("revoked_on", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanToken(row pgx.Row) (*domain.RefreshToken, error) {
	var (
		token     domain.RefreshToken
		revokedOn sql.NullTime
	)

	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.CreatedOn,
		&token.ExpiresOn,
		&revokedOn,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	if revokedOn.Valid {
		t := revokedOn.Time
		token.RevokedOn = &t
	}

	return &token, nil
}

var _ port.TokenRepository = (*TokenRepository)(nil)
