package middleware

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

var testSecret = []byte("middleware-secret")

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestNewJWTAuthenticator(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	auth := NewJWTAuthenticator(issuer)
	assert.Same(t, issuer, auth.Issuer)
}

func TestMiddleware_Rejections(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	auth := NewJWTAuthenticator(issuer)

	expired, err := token.NewIssuer(testSecret, time.Hour, token.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})).Sign("user-1", "a@test.com", model.RoleAgent)
	require.NoError(t, err)

	foreign, err := token.NewIssuer([]byte("other-secret"), time.Hour).Sign("user-1", "a@test.com", model.RoleAgent)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "user-1",
		"role":   "admin",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "No token provided"},
		{"basic auth", "Basic dXNlcjpwYXNz", "No token provided"},
		{"lowercase scheme", "bearer abc", "No token provided"},
		{"garbage token", "Bearer not-a-jwt", "Invalid token"},
		{"expired token", "Bearer " + expired, "Invalid token"},
		{"wrong secret", "Bearer " + foreign, "Invalid token"},
		{"none algorithm", "Bearer " + unsigned, "Invalid token"},
	}

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestMiddleware_IdentityFromContext(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	signed, err := issuer.Sign("user-1", "agent@test.com", model.RoleAgent)
	require.NoError(t, err)

	var got *identity.Identity
	handler := NewJWTAuthenticator(issuer).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.RemoteAddr = "10.0.0.7:51234"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "agent@test.com", got.Email)
	assert.Equal(t, model.RoleAgent, got.Role)
	assert.Equal(t, "10.0.0.7", got.RemoteIP.String())
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, 5*time.Second)
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		expected   net.IP
	}{
		{"host and port", "192.168.1.4:8080", "", net.ParseIP("192.168.1.4")},
		{"forwarded wins", "192.168.1.4:8080", "203.0.113.9, 10.0.0.1", net.ParseIP("203.0.113.9")},
		{"bad forwarded ignored", "192.168.1.4:8080", "unknown", net.ParseIP("192.168.1.4")},
		{"bare address", "::1", "", net.ParseIP("::1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.True(t, tt.expected.Equal(RemoteIP(req)))
		})
	}
}

func TestRequireRole(t *testing.T) {
	var buf bytes.Buffer
	audit.DefaultLogger.SetWriter(&buf)

	gate := RequireRole(model.RoleAgent, model.RoleAdmin)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		identity *identity.Identity
		code     int
		message  string
	}{
		{"no identity", nil, http.StatusUnauthorized, "Unauthorized"},
		{"requester", &identity.Identity{UserID: "u-1", Role: model.RoleRequester}, http.StatusForbidden, "Forbidden"},
		{"agent", &identity.Identity{UserID: "u-2", Role: model.RoleAgent}, http.StatusNoContent, ""},
		{"admin", &identity.Identity{UserID: "u-3", Role: model.RoleAdmin}, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PATCH", "/api/tickets/t-1", nil)
			if tt.identity != nil {
				req = req.WithContext(identity.Set(req.Context(), tt.identity))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, rec))
			}
		})
	}

	assert.Contains(t, buf.String(), "access-denied")
	assert.Contains(t, buf.String(), `allowed="agent,admin"`)
}
