package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// RegisterCatalogEndpoints registers the category and priority listings
func RegisterCatalogEndpoints(s *server.Server) {
	catalogRouter := s.Router.PathPrefix("/api").Subrouter()
	catalogRouter.Use(s.JWTMiddleware.Middleware)

	// GET /api/categories - List ticket categories
	catalogRouter.HandleFunc("/categories", handleListCategories(s.CatalogStore)).Methods("GET")

	// GET /api/priorities - List ticket priorities
	catalogRouter.HandleFunc("/priorities", handleListPriorities(s.CatalogStore)).Methods("GET")
}

func handleListCategories(catalogStore store.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalogStore.ListCategories()
		if err != nil {
			slog.Error("list categories", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		respondWithJSON(w, http.StatusOK, categories)
	}
}

func handleListPriorities(catalogStore store.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		priorities, err := catalogStore.ListPriorities()
		if err != nil {
			slog.Error("list priorities", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch priorities")
			return
		}
		respondWithJSON(w, http.StatusOK, priorities)
	}
}
