// Package pgx implements the award-graph storage interfaces on PostgreSQL.
// Natural keys are enforced by unique constraints; a commit that loses a key
// race surfaces as store.ErrConflict so the caller can rebuild the record
// against the winner's rows.
package pgx

import (
	"context"
	"errors"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/resolve"
	"github.com/grantgraph/grantgraph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// Store implements store.Storage on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given pool. The schema must already be
// migrated, see Migrate.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Storage = (*Store)(nil)

// Begin opens one record's transaction with a fresh resolution cache.
func (s *Store) Begin(ctx context.Context) (store.Scope, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &scope{tx: tx, rs: resolve.NewScope()}, nil
}

// EnsureCountries seeds the country lookup table, leaving existing rows
// untouched.
func (s *Store) EnsureCountries(ctx context.Context, countries []common.Country) error {
	for _, c := range countries {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO country (alpha2, name)
			VALUES ($1, $2)
			ON CONFLICT (alpha2) DO NOTHING`,
			c.Alpha2, c.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

// wrapUnique maps a unique-constraint violation onto store.ErrConflict so
// the graph client can recognize a lost natural-key race.
func wrapUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Join(store.ErrConflict, err)
	}
	return err
}
