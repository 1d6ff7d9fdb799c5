// Package server provides the HTTP server for the helpdesk API.
//
// The Server holds the gorilla/mux router, the configuration, the token
// issuer and the stores every endpoint is served from. The stores are
// either the in-memory implementations or the Postgres ones; the server
// does not know which.
//
// # Server Setup
//
//	s := server.NewServer(cfg, server.Stores{
//	    Users:    users,
//	    Tickets:  tickets,
//	    Comments: comments,
//	    Catalog:  catalog,
//	    Health:   health,
//	})
//	endpoints.RegisterAll(s)
//	if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	    log.Fatal(err)
//	}
//
// Handler wraps the router with CORS for the configured origins and with
// an Apache-style access log.
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /api/auth/signup, /api/auth/login - account creation and login
//   - /api/health, /api/dashboard - liveness and token check
//   - /api/categories, /api/priorities - lookup tables
//   - /api/tickets/... - tickets, their history and comments
package server
