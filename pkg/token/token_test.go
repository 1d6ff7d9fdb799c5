package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
)

var issuedAt = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestSignAndParse(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), 24*time.Hour, fixedClock(issuedAt))

	raw, err := issuer.Sign("user-1", "agent1@test.com", model.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(raw, "."))

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "agent1@test.com", claims.Email)
	assert.Equal(t, model.RoleAgent, claims.Role)
	assert.Equal(t, issuedAt.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestParse_Rejects(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Hour, fixedClock(issuedAt))
	valid, err := issuer.Sign("user-1", "a@test.com", model.RoleAdmin)
	require.NoError(t, err)

	otherKey, err := NewIssuer([]byte("other"), time.Hour, fixedClock(issuedAt)).Sign("user-1", "a@test.com", model.RoleAdmin)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		Role:   model.RoleAdmin,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		raw    string
		issuer *Issuer
	}{
		{"garbage", "not-a-token", issuer},
		{"wrong key", otherKey, issuer},
		{"expired", valid, NewIssuer([]byte("secret"), time.Hour, fixedClock(issuedAt.Add(2*time.Hour)))},
		{"missing role", noRole, issuer},
		{"missing expiry", noExpiry, issuer},
		{"alg none", unsigned, issuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.issuer.Parse(tt.raw)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
