// Package config provides configuration management for the helpdesk server.
//
// # Configuration Sources
//
// Values are resolved in order, later sources winning:
//
//   - Built-in defaults
//   - $HELPDESK_CONFIG_PATH/helpdesk.yml (default /etc/helpdesk/config)
//   - Environment variables
//
// # Key Configuration Options
//
//   - PORT, BIND_ADDRESS: API listen address (default 0.0.0.0:4001)
//   - HELPDESK_ENV: development, test or production
//   - USE_MOCK_DB: serve from the in-memory store instead of Postgres
//   - DATABASE_URL: Postgres connection
//   - JWT_SECRET: session token signing secret
//   - HELPDESK_SEED_FILE, HELPDESK_WATCH_SEED: in-memory demo data
//
// Validate refuses to start a production server that still uses the
// in-memory store or an unset or development JWT secret.
package config
