package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// MockUsersStore implements store.UsersStore for testing
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) CreateUser(email, passwordHash string) (*model.User, error) {
	args := m.Called(email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FetchUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) DeleteUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUsersStore) AssignRole(userID string, role model.RoleName) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *MockUsersStore) FetchRole(userID string) (model.RoleName, error) {
	args := m.Called(userID)
	return args.Get(0).(model.RoleName), args.Error(1)
}

// MockTicketsStore implements store.TicketsStore for testing
type MockTicketsStore struct {
	mock.Mock
}

func NewMockTicketsStore() *MockTicketsStore {
	return &MockTicketsStore{}
}

func (m *MockTicketsStore) ListTickets(filter store.TicketFilter) ([]store.TicketView, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.TicketView), args.Error(1)
}

func (m *MockTicketsStore) FetchTicket(id string) (*store.TicketView, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.TicketView), args.Error(1)
}

func (m *MockTicketsStore) CreateTicket(t store.NewTicket) (*store.TicketView, error) {
	args := m.Called(t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.TicketView), args.Error(1)
}

func (m *MockTicketsStore) UpdateTicket(id, changedBy string, patch store.TicketPatch) (*store.TicketView, []model.TicketHistory, error) {
	args := m.Called(id, changedBy, patch)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	history, _ := args.Get(1).([]model.TicketHistory)
	return args.Get(0).(*store.TicketView), history, args.Error(2)
}

func (m *MockTicketsStore) DeleteTicket(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTicketsStore) ListHistory(ticketID string) ([]model.TicketHistory, error) {
	args := m.Called(ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TicketHistory), args.Error(1)
}

// MockCommentsStore implements store.CommentsStore for testing
type MockCommentsStore struct {
	mock.Mock
}

func NewMockCommentsStore() *MockCommentsStore {
	return &MockCommentsStore{}
}

func (m *MockCommentsStore) ListComments(ticketID string) ([]store.CommentView, error) {
	args := m.Called(ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.CommentView), args.Error(1)
}

func (m *MockCommentsStore) CreateComment(ticketID, authorID, content string) (*store.CommentView, error) {
	args := m.Called(ticketID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.CommentView), args.Error(1)
}

// MockCatalogStore implements store.CatalogStore for testing
type MockCatalogStore struct {
	mock.Mock
}

func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{}
}

func (m *MockCatalogStore) ListCategories() ([]model.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogStore) ListPriorities() ([]model.Priority, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Priority), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ store.UsersStore    = (*MockUsersStore)(nil)
	_ store.TicketsStore  = (*MockTicketsStore)(nil)
	_ store.CommentsStore = (*MockCommentsStore)(nil)
	_ store.CatalogStore  = (*MockCatalogStore)(nil)
	_ store.HealthStore   = (*MockHealthStore)(nil)
)
