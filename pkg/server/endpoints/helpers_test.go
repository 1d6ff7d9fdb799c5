package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/config"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/seed"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	storemockdb "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store/mockdb"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		BindAddress: "127.0.0.1",
		Port:        4001,
		Environment: config.EnvTest,
		UseMockDB:   true,
		JWTSecret:   "endpoint-test-secret",
		TokenTTL:    3600,
		CORSOrigins: []string{"http://localhost:5173"},
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// mockStores holds the testify mocks behind a server built by newMockServer
type mockStores struct {
	Users    *MockUsersStore
	Tickets  *MockTicketsStore
	Comments *MockCommentsStore
	Catalog  *MockCatalogStore
	Health   *MockHealthStore
}

func newMockServer(t *testing.T) (*server.Server, *mockStores) {
	t.Helper()
	audit.DefaultLogger.SetWriter(io.Discard)

	mocks := &mockStores{
		Users:    NewMockUsersStore(),
		Tickets:  NewMockTicketsStore(),
		Comments: NewMockCommentsStore(),
		Catalog:  NewMockCatalogStore(),
		Health:   NewMockHealthStore(),
	}
	s := server.NewServer(testConfig(), server.Stores{
		Users:    mocks.Users,
		Tickets:  mocks.Tickets,
		Comments: mocks.Comments,
		Catalog:  mocks.Catalog,
		Health:   mocks.Health,
	}, server.WithAuthenticatorOptions(authenticator.WithCost(bcrypt.MinCost)))
	s.AccessLog = io.Discard
	RegisterAll(s)
	return s, mocks
}

// newSeededServer builds a server over the in-memory store holding the
// default data set
func newSeededServer(t *testing.T) *server.Server {
	t.Helper()
	audit.DefaultLogger.SetWriter(io.Discard)

	var seq atomic.Int64
	db, err := seed.NewStore("", testNow,
		mockdb.WithClock(func() time.Time { return testNow }),
		mockdb.WithIDGenerator(func() string { return fmt.Sprintf("new-%d", seq.Add(1)) }),
	)
	require.NoError(t, err)
	client := mockdb.NewClient(db)

	s := server.NewServer(testConfig(), server.Stores{
		Users:    storemockdb.NewUsersStore(client),
		Tickets:  storemockdb.NewTicketsStore(client),
		Comments: storemockdb.NewCommentsStore(client),
		Catalog:  storemockdb.NewCatalogStore(client),
		Health:   storemockdb.NewHealthStore(client),
	}, server.WithAuthenticatorOptions(authenticator.WithCost(bcrypt.MinCost)))
	s.AccessLog = io.Discard
	RegisterAll(s)
	return s
}

func tokenFor(t *testing.T, s *server.Server, userID string, role model.RoleName) string {
	t.Helper()
	signed, err := s.Issuer.Sign(userID, string(role)+"@test.com", role)
	require.NoError(t, err)
	return signed
}

// doRequest sends a request through the full handler chain. body is
// encoded as JSON unless it is a string.
func doRequest(t *testing.T, s *server.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[map[string]string](t, rec)["error"]
}
