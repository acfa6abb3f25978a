package store

import "embed"

// embedMigrations contains the SQL migrations for the SQLite backend.
//
//go:embed migrations/*.sql
var embedMigrations embed.FS
