// Package db embeds the SQL migrations applied by cmd/migrate.
package db

import "embed"

//go:embed *.sql
var Migrations embed.FS
