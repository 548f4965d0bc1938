package zombiezen

import (
	"fmt"
	"io/fs"
	"path"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ApplyMigrations runs every .sql file of fsys in lexical path order
// inside one savepoint: either the whole schema applies or nothing does.
// Scripts must be idempotent since they run on every start.
func ApplyMigrations(conn *sqlite.Conn, fsys fs.FS) (err error) {
	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(scripts) == 0 {
		return fmt.Errorf("no migration found")
	}

	defer sqlitex.Save(conn)(&err)

	for _, name := range scripts {
		sql, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if err := sqlitex.ExecuteScript(conn, string(sql), nil); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", path.Base(name), err)
		}
	}
	return nil
}
