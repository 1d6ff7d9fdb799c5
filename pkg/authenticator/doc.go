// Package authenticator implements password signup and login.
//
// Passwords are hashed with bcrypt (cost 10 by default). A successful
// signup or login returns a signed session token:
//
//	auth := authenticator.New(usersStore, issuer)
//	session, err := auth.Login(email, password)
//	if errors.Is(err, authenticator.ErrInvalidCredentials) {
//	    // 401
//	}
//
// Signup stores the user and then its role. If the role insert fails the
// user is deleted again, so a failed signup never leaves an account
// without a role.
package authenticator
