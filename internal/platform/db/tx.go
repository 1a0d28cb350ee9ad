package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by pools and transactions. Repositories
// accept either so multi-step operations can run inside one transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type querierKey struct{}

// WithQuerier returns a context carrying q. Repositories prefer a
// context-carried querier over their own pool.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey{}, q)
}

// QuerierFromContext returns the context-carried querier, or nil.
func QuerierFromContext(ctx context.Context) Querier {
	q, _ := ctx.Value(querierKey{}).(Querier)
	return q
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error. The transaction is injected into the context fn receives, so any
// repository call made with that context joins the transaction.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithQuerier(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
