// Package migrations embeds the SQL schema of the user store.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed schema/app/*.sql
var schemaFS embed.FS

// Schema returns the embedded scripts rooted at schema/, one directory per
// database.
func Schema() fs.FS {
	sub, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		panic(err)
	}
	return sub
}
