// Package identity carries the authenticated user through a request.
//
// The auth middleware verifies the bearer token and stores an Identity in
// the request context; handlers read it back with Get:
//
//	ctx = identity.Set(ctx, identity.FromClaims(claims))
//
//	id, ok := identity.Get(r.Context())
//	if !ok || !id.HasRole(model.RoleAdmin) {
//	    // forbidden
//	}
package identity
