package endpoints

import "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"

// RegisterAll registers every helpdesk API endpoint on s
func RegisterAll(s *server.Server) {
	RegisterStatusEndpoints(s)
	RegisterAuthEndpoints(s)
	RegisterCatalogEndpoints(s)
	RegisterCommentsEndpoints(s)
	RegisterTicketsEndpoints(s)
}
