package zombiezen

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/aquanorma/credentials/db"
	"github.com/aquanorma/credentials/migrations"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Db struct {
	pool *sqlitex.Pool
}

var _ db.DbAuth = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// Note: The lifecycle of the provided pool (*sqlitex.Pool) is managed externally.
// This Db type does not close the pool.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (d *Db) Migrate(ctx context.Context) error {
	conn, err := d.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	schema, err := fs.Sub(migrations.Schema(), "app")
	if err != nil {
		return err
	}
	return ApplyMigrations(conn, schema)
}
