package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

const bearerPrefix = "Bearer "

// JWTAuthenticator is middleware that validates bearer session tokens
type JWTAuthenticator struct {
	Issuer *token.Issuer
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(issuer *token.Issuer) *JWTAuthenticator {
	return &JWTAuthenticator{Issuer: issuer}
}

// Middleware returns an HTTP middleware that validates the bearer token and
// stores the caller's identity in the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := j.Issuer.Parse(strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)))
		if err != nil {
			writeError(w, http.StatusUnauthorized, token.ErrInvalid.Error())
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(RemoteIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RemoteIP returns the client address, preferring the first
// X-Forwarded-For entry
func RemoteIP(r *http.Request) net.IP {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
