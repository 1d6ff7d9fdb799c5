package gorm

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser inserts a user; created_at is set by the database.
func (s *UsersStore) CreateUser(email, passwordHash string) (*model.User, error) {
	user := model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: passwordHash,
	}
	if err := s.db.Omit("created_at").Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrEmailTaken
		}
		return nil, err
	}
	return s.fetchUser("id = ?", user.ID)
}

// FetchUserByEmail returns the user including the password hash.
func (s *UsersStore) FetchUserByEmail(email string) (*model.User, error) {
	return s.fetchUser("email = ?", email)
}

func (s *UsersStore) fetchUser(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := s.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user.
func (s *UsersStore) DeleteUser(userID string) error {
	tx := s.db.Where("id = ?", userID).Delete(&model.User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// AssignRole stores the user's role.
func (s *UsersStore) AssignRole(userID string, role model.RoleName) error {
	err := s.db.Create(&model.Role{UserID: userID, Role: role}).Error
	if isUniqueViolation(err) {
		return store.ErrRoleExists
	}
	return err
}

// FetchRole returns the user's role.
func (s *UsersStore) FetchRole(userID string) (model.RoleName, error) {
	var role model.Role
	if err := s.db.Where("user_id = ?", userID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", store.ErrRoleNotFound
		}
		return "", err
	}
	return role.Role, nil
}
