package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/config"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/seed"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/endpoints"
	storemockdb "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store/mockdb"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	ServerURL  string
	HTTPClient *http.Client

	closers []func(ctx context.Context)
}

// Close cleans up all test resources, most recent first
func (tc *TestContext) Close(ctx context.Context) {
	for i := len(tc.closers) - 1; i >= 0; i-- {
		tc.closers[i](ctx)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		BindAddress: "127.0.0.1",
		Environment: config.EnvTest,
		JWTSecret:   "integration-test-secret",
		TokenTTL:    3600,
		CORSOrigins: []string{"http://localhost:5173"},
		LogLevel:    "error",
		LogFormat:   "text",
	}
}

// startInlineServer serves stores from an httptest server
func startInlineServer(tc *TestContext, cfg *config.Config, stores server.Stores) {
	audit.DefaultLogger.SetWriter(io.Discard)

	s := server.NewServer(cfg, stores, server.WithAuthenticatorOptions(authenticator.WithCost(bcrypt.MinCost)))
	s.AccessLog = io.Discard
	endpoints.RegisterAll(s)

	ts := httptest.NewServer(s.Handler())
	tc.ServerURL = ts.URL
	tc.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	tc.closers = append(tc.closers, func(context.Context) { ts.Close() })
}

// NewMockTestContext starts a server over the in-memory store seeded with
// the default data.
func NewMockTestContext() (*TestContext, error) {
	db, err := seed.NewStore("", time.Now())
	if err != nil {
		return nil, err
	}
	client := mockdb.NewClient(db)

	tc := &TestContext{}
	startInlineServer(tc, testConfig(), server.Stores{
		Users:    storemockdb.NewUsersStore(client),
		Tickets:  storemockdb.NewTicketsStore(client),
		Comments: storemockdb.NewCommentsStore(client),
		Catalog:  storemockdb.NewCatalogStore(client),
		Health:   storemockdb.NewHealthStore(client),
	})
	return tc, nil
}
