package zombiezen

import (
	"context"
	"testing"
	"testing/fstest"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func memConn(t *testing.T) *sqlite.Conn {
	t.Helper()
	pool, err := sqlitex.NewPool("file::memory:", sqlitex.PoolOptions{PoolSize: 1})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("failed to take conn: %v", err)
	}
	t.Cleanup(func() { pool.Put(conn) })
	return conn
}

func tableExists(t *testing.T, conn *sqlite.Conn, name string) bool {
	t.Helper()
	found := false
	err := sqlitex.Execute(conn, "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return found
}

func TestApplyMigrations(t *testing.T) {
	conn := memConn(t)
	fsys := fstest.MapFS{
		"01_a.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"02_b.sql":  {Data: []byte("CREATE TABLE b (a_id INTEGER REFERENCES a(id));")},
		"README.md": {Data: []byte("not sql")},
	}

	if err := ApplyMigrations(conn, fsys); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	for _, table := range []string{"a", "b"} {
		if !tableExists(t, conn, table) {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestApplyMigrations_RollsBackOnFailure(t *testing.T) {
	conn := memConn(t)
	fsys := fstest.MapFS{
		"01_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"02_b.sql": {Data: []byte("CREATE TABLE b (;")},
	}

	if err := ApplyMigrations(conn, fsys); err == nil {
		t.Fatal("ApplyMigrations() succeeded with a broken script")
	}
	if tableExists(t, conn, "a") {
		t.Error("table a survived a failed migration")
	}
}

func TestApplyMigrations_Empty(t *testing.T) {
	if err := ApplyMigrations(memConn(t), fstest.MapFS{}); err == nil {
		t.Error("ApplyMigrations() on an empty fs succeeded")
	}
}
