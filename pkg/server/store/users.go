package store

import (
	"errors"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the email is already registered
var ErrEmailTaken = errors.New("a user with this email already exists")

// ErrRoleNotFound is returned when a user has no role
var ErrRoleNotFound = errors.New("role not found")

// ErrRoleExists is returned when a user already holds a role
var ErrRoleExists = errors.New("user role already exists")

// UsersStore abstracts account and role storage
type UsersStore interface {
	// CreateUser inserts a user with an already-hashed password.
	// Returns ErrEmailTaken if the email is registered.
	CreateUser(email, passwordHash string) (*model.User, error)

	// FetchUserByEmail returns the user, including the password hash.
	// Returns ErrUserNotFound if there is none.
	FetchUserByEmail(email string) (*model.User, error)

	// DeleteUser removes a user. Deleting a missing user is not an error.
	DeleteUser(userID string) error

	// AssignRole gives the user its role.
	// Returns ErrRoleExists if the user already has one.
	AssignRole(userID string, role model.RoleName) error

	// FetchRole returns the user's role.
	// Returns ErrRoleNotFound if the user has none.
	FetchRole(userID string) (model.RoleName, error)
}
