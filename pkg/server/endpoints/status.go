package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// HealthResponse represents the response from /api/health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DashboardResponse represents the response from /api/dashboard
type DashboardResponse struct {
	Message string             `json:"message"`
	User    *identity.Identity `json:"user"`
}

// RegisterStatusEndpoints registers the health check and the dashboard
func RegisterStatusEndpoints(s *server.Server) {
	// GET /api/health - Liveness and database check (no auth required)
	s.Router.HandleFunc("/api/health", handleHealth(s.HealthStore)).Methods("GET")

	// GET /api/dashboard - Echo the authenticated user
	dashboardRouter := s.Router.PathPrefix("/api/dashboard").Subrouter()
	dashboardRouter.Use(s.JWTMiddleware.Middleware)
	dashboardRouter.HandleFunc("", handleDashboard()).Methods("GET")
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			slog.Error("health check failed", "error", err)
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "OK"})
	}
}

func handleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		respondWithJSON(w, http.StatusOK, DashboardResponse{
			Message: "Protected Dashboard",
			User:    id,
		})
	}
}
