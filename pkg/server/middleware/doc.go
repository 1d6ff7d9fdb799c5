// Package middleware holds the HTTP middleware guarding the helpdesk API.
//
// JWTAuthenticator reads the "Authorization: Bearer <token>" header,
// verifies the token and stores the caller's identity.Identity in the
// request context. RequireRole then restricts a route to a set of roles:
//
//	api := s.Router.PathPrefix("/api/tickets").Subrouter()
//	api.Use(s.JWTMiddleware.Middleware)
//	api.Handle("/{id}", handler).Methods("DELETE")
//
//	admin := api.NewRoute().Subrouter()
//	admin.Use(middleware.RequireRole(model.RoleAdmin))
//
// Rejections are JSON bodies of the form {"error": "..."}.
package middleware
