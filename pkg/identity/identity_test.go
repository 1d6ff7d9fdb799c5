package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

func TestFromClaims(t *testing.T) {
	iat := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	claims := &token.Claims{
		UserID: "user-1",
		Email:  "agent1@test.com",
		Role:   model.RoleAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(time.Hour)),
		},
	}

	id := FromClaims(claims)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "agent1@test.com", id.Email)
	assert.Equal(t, model.RoleAgent, id.Role)
	assert.True(t, id.IssuedAt.Equal(iat))
	assert.True(t, id.ExpiresAt.Equal(iat.Add(time.Hour)))
}

func TestFromClaims_NoTimestamps(t *testing.T) {
	id := FromClaims(&token.Claims{UserID: "user-1", Role: model.RoleAdmin})
	assert.True(t, id.IssuedAt.IsZero())
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestIdentity_Roles(t *testing.T) {
	tests := []struct {
		name    string
		role    model.RoleName
		staff   bool
		isAdmin bool
	}{
		{"admin", model.RoleAdmin, true, true},
		{"agent", model.RoleAgent, true, false},
		{"requester", model.RoleRequester, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &Identity{Role: tt.role}
			assert.Equal(t, tt.staff, id.IsStaff())
			assert.Equal(t, tt.isAdmin, id.HasRole(model.RoleAdmin))
			assert.True(t, id.HasRole(model.RoleAdmin, model.RoleAgent, model.RoleRequester))
			assert.False(t, id.HasRole())
		})
	}
}

func TestIdentity_WithRemoteIP(t *testing.T) {
	ip := net.ParseIP("192.168.1.100")
	id := (&Identity{UserID: "user-1"}).WithRemoteIP(ip)
	assert.Equal(t, ip, id.RemoteIP)
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	expected := &Identity{UserID: "user-1", Email: "a@test.com", Role: model.RoleAdmin}
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected, id)
}
