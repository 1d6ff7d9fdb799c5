package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
)

// RequireRole only lets through callers holding one of roles. It must run
// after JWTAuthenticator.Middleware.
func RequireRole(roles ...model.RoleName) mux.MiddlewareFunc {
	allowed := make([]string, len(roles))
	for i, role := range roles {
		allowed[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok || id == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !id.HasRole(roles...) {
				audit.Log(audit.AccessDeniedEvent{
					UserID:   id.UserID,
					Role:     string(id.Role),
					ClientIP: id.RemoteIP.String(),
					Method:   r.Method,
					Path:     r.URL.Path,
					Allowed:  allowed,
				})
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
