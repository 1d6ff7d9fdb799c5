// Package db holds the Postgres schema migrations.
package db

import "embed"

// Migrations is embedded when helpdeskctl is built with -tags embed_migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
