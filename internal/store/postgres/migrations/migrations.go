package migrations

import "embed"

// Migrations holds the schema files applied by the postgres role store.
//
//go:embed *.sql
var Migrations embed.FS
