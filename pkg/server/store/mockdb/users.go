package mockdb

import (
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using the in-memory engine
type UsersStore struct {
	client *mockdb.Client
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(client *mockdb.Client) *UsersStore {
	return &UsersStore{client: client}
}

// CreateUser inserts a user with an already-hashed password.
func (s *UsersStore) CreateUser(email, passwordHash string) (*model.User, error) {
	res := s.client.From("users").Insert(mockdb.Record{
		"email":    email,
		"password": passwordHash,
	})
	if err := res.Err(); err != nil {
		if errors.Is(err, mockdb.ErrDuplicateKey) {
			return nil, store.ErrEmailTaken
		}
		return nil, err
	}
	return model.FromRecord[model.User](res.Data[0])
}

// FetchUserByEmail returns the user including the password hash.
func (s *UsersStore) FetchUserByEmail(email string) (*model.User, error) {
	res := s.client.From("users").Select("*").Eq("email", email).Single()
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, store.ErrUserNotFound
	}
	return model.FromRecord[model.User](res.Data)
}

// DeleteUser removes a user.
func (s *UsersStore) DeleteUser(userID string) error {
	return s.client.From("users").Eq("id", userID).Delete().Err()
}

// AssignRole gives the user its role.
func (s *UsersStore) AssignRole(userID string, role model.RoleName) error {
	res := s.client.From("roles").Insert(mockdb.Record{
		"user_id": userID,
		"role":    string(role),
	})
	if err := res.Err(); err != nil {
		if errors.Is(err, mockdb.ErrDuplicateKey) {
			return store.ErrRoleExists
		}
		return err
	}
	return nil
}

// FetchRole returns the user's role.
func (s *UsersStore) FetchRole(userID string) (model.RoleName, error) {
	res := s.client.From("roles").Select("role").Eq("user_id", userID).Single()
	if err := res.Err(); err != nil {
		return "", err
	}
	if res.Data == nil {
		return "", store.ErrRoleNotFound
	}
	role, ok := res.Data["role"].(string)
	if !ok {
		return "", fmt.Errorf("role of user %s is %T, not a string", userID, res.Data["role"])
	}
	return model.RoleName(role), nil
}
