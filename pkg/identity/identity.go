package identity

import (
	"context"
	"net"
	"slices"
	"time"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated user for a request.
type Identity struct {
	UserID    string         `json:"userId"`
	Email     string         `json:"email"`
	Role      model.RoleName `json:"role"`
	IssuedAt  time.Time      `json:"-"`
	ExpiresAt time.Time      `json:"-"`

	// RemoteIP is the client address the request came from
	RemoteIP net.IP `json:"-"`
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(claims *token.Claims) *Identity {
	id := &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// HasRole reports whether the identity holds one of roles.
func (i *Identity) HasRole(roles ...model.RoleName) bool {
	return slices.Contains(roles, i.Role)
}

// IsStaff reports whether the identity is an agent or admin.
func (i *Identity) IsStaff() bool {
	return i.Role.IsStaff()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
