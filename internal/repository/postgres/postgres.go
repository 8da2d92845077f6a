package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgExecutor abstracts the pgx surface repositories need, so both pools and
// transactions (and pgxmock in tests) can back a repository.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories groups the concrete PostgreSQL repository implementations.
type Repositories struct {
	Users    *UserRepository
	Tokens   *TokenRepository
	Messages *MessageRepository
	Cart     *CartRepository
	Reports  *ReportRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Tokens:   NewTokenRepository(pool),
		Messages: NewMessageRepository(pool),
		Cart:     NewCartRepository(pool),
		Reports:  NewReportRepository(pool),
	}
}
