// Package migrations embeds the SQL schema applied by goose on startup.
// The statements stay within the subset shared by PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
