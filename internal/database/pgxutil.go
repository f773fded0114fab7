package database

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/xlab/closer"
)

// pgxUtil wraps a pgx pool so queries can be passed as squirrel builders.
type pgxUtil struct {
	pool *pgxpool.Pool
}

// NewPGX connects to url and makes sure the schema exists.
func NewPGX(ctx context.Context, url string) (Queryable, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	closer.Bind(pool.Close)

	p := &pgxUtil{pool: pool}
	if _, err := p.ExecRaw(ctx, Schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return p, nil
}

// ExecRaw executes a plain SQL string.
func (p *pgxUtil) ExecRaw(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, arguments...)
}

// Exec executes the query built by sqlizer.
func (p *pgxUtil) Exec(ctx context.Context, sqlizer Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}

	return p.pool.Exec(ctx, query, args...)
}

// Select scans every returned row into the slice dst.
// No rows is not an error.
func (p *pgxUtil) Select(ctx context.Context, dst interface{}, sqlizer Sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}

	return pgxscan.Select(ctx, p.pool, dst, query, args...)
}

// Get scans a single row into dst.
// Returns pgx.ErrNoRows when nothing matches.
func (p *pgxUtil) Get(ctx context.Context, dst interface{}, sqlizer Sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}

	return pgxscan.Get(ctx, p.pool, dst, query, args...)
}
