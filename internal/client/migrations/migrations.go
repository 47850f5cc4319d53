// Package migrations embeds the SQLite schema migrations applied by goose
// when the client database is initialized.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
