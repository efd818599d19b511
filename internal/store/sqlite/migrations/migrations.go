package migrations

import "embed"

// Migrations holds the schema files applied by the sqlite role store.
//
//go:embed *.sql
var Migrations embed.FS
