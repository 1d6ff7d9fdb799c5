// Package token issues and verifies helpdesk session tokens.
//
// Tokens are HS256-signed JWTs carrying the user's id, email and role:
//
//	issuer := token.NewIssuer(secret, 24*time.Hour)
//	raw, err := issuer.Sign(user.ID, user.Email, model.RoleAgent)
//
//	claims, err := issuer.Parse(raw)
//	if errors.Is(err, token.ErrInvalid) {
//	    // reject the request
//	}
package token
