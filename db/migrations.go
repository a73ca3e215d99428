// Package db owns the embedded migration assets consumed by
// internal/store. The SQL files themselves live alongside this file in
// migrations/ so the go:embed directive can reach them; internal/store
// never reads the filesystem directly for migrations.
package db

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS
