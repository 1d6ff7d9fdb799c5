package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/config"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

// Stores groups the data access layer the endpoints are served from
type Stores struct {
	Users    store.UsersStore
	Tickets  store.TicketsStore
	Comments store.CommentsStore
	Catalog  store.CatalogStore
	Health   store.HealthStore
}

type Server struct {
	Config        *config.Config
	Router        *mux.Router
	Issuer        *token.Issuer
	Authenticator *authenticator.Authenticator
	JWTMiddleware *middleware.JWTAuthenticator

	UsersStore    store.UsersStore
	TicketsStore  store.TicketsStore
	CommentsStore store.CommentsStore
	CatalogStore  store.CatalogStore
	HealthStore   store.HealthStore

	// AccessLog receives one line per request, os.Stdout unless replaced
	// before Handler is called
	AccessLog io.Writer

	authOpts []authenticator.Option
	srv      *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithAuthenticatorOptions passes options through to the authenticator
func WithAuthenticatorOptions(opts ...authenticator.Option) Option {
	return func(s *Server) {
		s.authOpts = append(s.authOpts, opts...)
	}
}

// WithIssuer replaces the token issuer built from the configuration
func WithIssuer(issuer *token.Issuer) Option {
	return func(s *Server) {
		s.Issuer = issuer
	}
}

func NewServer(cfg *config.Config, stores Stores, opts ...Option) *Server {
	s := &Server{
		Config:        cfg,
		Router:        mux.NewRouter().UseEncodedPath(),
		Issuer:        token.NewIssuer(cfg.SigningSecret(), cfg.TokenLifetime()),
		UsersStore:    stores.Users,
		TicketsStore:  stores.Tickets,
		CommentsStore: stores.Comments,
		CatalogStore:  stores.Catalog,
		HealthStore:   stores.Health,
		AccessLog:     os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Authenticator = authenticator.New(s.UsersStore, s.Issuer, s.authOpts...)
	s.JWTMiddleware = middleware.NewJWTAuthenticator(s.Issuer)
	return s
}

// Handler returns the router wrapped with CORS and access logging
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.Config.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)
	return handlers.LoggingHandler(s.AccessLog, cors(s.Router))
}

// Start listens on the configured address until Shutdown is called.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         s.Config.Address(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
