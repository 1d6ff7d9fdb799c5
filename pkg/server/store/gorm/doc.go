// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// These stores back the API when the server runs against Postgres
// (use_mock_db: false). The schema they expect is created by the
// migrations under db/migrations. Identifiers are generated here with
// google/uuid; timestamps come from column defaults.
//
// Unique constraint failures (SQLSTATE 23505) are reported as the store
// package's sentinel errors.
package gorm
