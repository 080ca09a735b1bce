// Package pgstore implements auth.UserDirectory and auth.RefreshStore on
// PostgreSQL through pgx. The schema ships as embedded goose migrations.
package pgstore

import "embed"

// Migrations holds the goose SQL files under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
