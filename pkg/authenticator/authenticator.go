package authenticator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/token"
)

var (
	// ErrMissingSignupFields is returned when email, password or role is empty
	ErrMissingSignupFields = errors.New("Email, password and role are required")

	// ErrMissingLoginFields is returned when email or password is empty
	ErrMissingLoginFields = errors.New("Email and password are required")

	// ErrInvalidRole is returned when signing up with an unknown role
	ErrInvalidRole = errors.New("Invalid role. Must be admin, agent, or requester")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password; the two are not distinguished
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrRoleLookup is returned when a user authenticates but has no role
	ErrRoleLookup = errors.New("Error retrieving user role")
)

// SignupInput holds the fields of a new account
type SignupInput struct {
	Email    string
	Password string
	Role     model.RoleName
}

// Session is the result of a successful signup or login
type Session struct {
	Token string
	User  *model.User
	Role  model.RoleName
}

// Authenticator registers accounts and exchanges passwords for tokens
type Authenticator struct {
	users  store.UsersStore
	issuer *token.Issuer
	cost   int
}

// Option configures an Authenticator
type Option func(*Authenticator)

// WithCost sets the bcrypt cost used for new password hashes
func WithCost(cost int) Option {
	return func(a *Authenticator) {
		a.cost = cost
	}
}

// New creates an Authenticator backed by users
func New(users store.UsersStore, issuer *token.Issuer, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:  users,
		issuer: issuer,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Signup creates the user and its role and returns a session token. When
// the role cannot be stored the user is removed again.
func (a *Authenticator) Signup(in SignupInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingSignupFields
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.CreateUser(email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := a.users.AssignRole(user.ID, in.Role); err != nil {
		if derr := a.users.DeleteUser(user.ID); derr != nil {
			return nil, errors.Join(err, fmt.Errorf("roll back user %s: %w", user.ID, derr))
		}
		return nil, err
	}

	return a.session(user, in.Role)
}

// Login verifies the password and returns a session token.
func (a *Authenticator) Login(email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := a.users.FetchUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := a.users.FetchRole(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoleLookup, err)
	}

	return a.session(user, role)
}

func (a *Authenticator) session(user *model.User, role model.RoleName) (*Session, error) {
	signed, err := a.issuer.Sign(user.ID, user.Email, role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, User: user, Role: role}, nil
}
