package database

import (
	"context"

	"github.com/jackc/pgconn"
)

// Queryable is the set of database operations repositories depend on.
type Queryable interface {
	Exec(ctx context.Context, sqlizer Sqlizer) (pgconn.CommandTag, error)
	Get(ctx context.Context, dst interface{}, sqlizer Sqlizer) error
	Select(ctx context.Context, dst interface{}, sqlizer Sqlizer) error
	ExecRaw(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// Sqlizer is implemented by every squirrel builder.
type Sqlizer interface {
	ToSql() (sql string, args []interface{}, err error)
}
