package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pizza-store/internal/domain"
)

// DB is the subset of pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository bundles the per-table repositories behind one constructor.
type Repository struct {
	Users  UserRepository
	Items  ItemRepository
	Stores StoreRepository
	Orders OrderRepository
}

func New(db DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(db),
		Items:  NewItemRepository(db),
		Stores: NewStoreRepository(db),
		Orders: NewOrderRepository(db),
	}
}

// wrap classifies a database failure into the domain taxonomy: missing
// rows become ErrNotFound, everything else ErrStoreUnavailable.
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// isUniqueViolation reports a Postgres unique/primary-key violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
