// Command helpdeskctl runs the helpdesk ticketing server.
//
// The server exposes a JSON API for signing up, logging in and working on
// support tickets. Data lives either in an in-memory store (the default,
// reset on every restart) or in Postgres through GORM.
//
// # Quick Start
//
// Run against the in-memory store with the built-in demo data:
//
//	helpdeskctl server
//
// Run against Postgres:
//
//	export DATABASE_URL=postgres://helpdesk@localhost/helpdesk?sslmode=disable
//	export USE_MOCK_DB=false
//	helpdeskctl db migrate
//	helpdeskctl server
//
// # Commands
//
//   - server: run the API server
//   - db migrate|down|status: manage the Postgres schema
//   - configuration show: print configuration attributes and their sources
//   - seed show: print the effective in-memory seed data as YAML
//   - wait: poll the health endpoint until the server is up
//
// # Environment Variables
//
//   - USE_MOCK_DB: serve from the in-memory store (default true)
//   - DATABASE_URL: PostgreSQL connection string
//   - JWT_SECRET: token signing secret (required in production)
//   - PORT, BIND_ADDRESS: listen address (default 0.0.0.0:4001)
//   - HELPDESK_SEED_FILE, HELPDESK_WATCH_SEED: in-memory seed overrides
//   - HELPDESK_CONFIG_PATH: directory holding helpdesk.yml
package main
