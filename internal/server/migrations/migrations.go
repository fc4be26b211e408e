// Package migrations embeds the goose schema migrations, one directory per
// SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// Dir returns the migration directory for a goose dialect name.
func Dir(gooseDialect string) string {
	if gooseDialect == "sqlite3" {
		return "sqlite"
	}
	return "postgres"
}
