package seed

import (
	"fmt"
	"time"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
)

// Well-known identifiers of the default data set.
const (
	AdminID      = "d7bed82c-5f89-4d49-9fde-10c35d304783"
	Agent1ID     = "b9c9c8d2-efb9-4a77-a9f3-c53c1e5f3c81"
	Agent2ID     = "f1c5b83a-99c8-4d29-b89d-71a4d740f004"
	Requester1ID = "e4a79e67-d751-4c47-93c7-2c3c60c938d9"
	Requester2ID = "a2b4c6d8-e0f2-4a6c-8e0a-2c4e6f8a0c2e"

	Ticket1ID = "123e4567-e89b-12d3-a456-426614174000"
	Ticket2ID = "223e4567-e89b-12d3-a456-426614174001"
	Ticket3ID = "323e4567-e89b-12d3-a456-426614174002"
)

// PasswordHash is the bcrypt hash shared by every default user.
const PasswordHash = "$2a$10$YaB6xpBcJe8Nc7rtUJCAFOO7KJoD1B3F4pHoG7XMxhX2b5HCDHzne"

// Data maps table names to their rows.
type Data map[string][]mockdb.Record

// Default builds the built-in data set relative to now.
func Default(now time.Time) (Data, error) {
	ago := func(d time.Duration) string {
		return mockdb.Timestamp(now.Add(-d))
	}
	day := 24 * time.Hour
	str := func(s string) *string { return &s }

	users := []model.User{
		{ID: AdminID, Email: "admin@test.com", Password: PasswordHash, CreatedAt: ago(0)},
		{ID: Agent1ID, Email: "agent1@test.com", Password: PasswordHash, CreatedAt: ago(0)},
		{ID: Agent2ID, Email: "agent2@test.com", Password: PasswordHash, CreatedAt: ago(0)},
		{ID: Requester1ID, Email: "user1@test.com", Password: PasswordHash, CreatedAt: ago(0)},
		{ID: Requester2ID, Email: "user2@test.com", Password: PasswordHash, CreatedAt: ago(0)},
	}
	roles := []model.Role{
		{UserID: AdminID, Role: model.RoleAdmin},
		{UserID: Agent1ID, Role: model.RoleAgent},
		{UserID: Agent2ID, Role: model.RoleAgent},
		{UserID: Requester1ID, Role: model.RoleRequester},
		{UserID: Requester2ID, Role: model.RoleRequester},
	}
	categories := []model.Category{
		{ID: 1, Name: "IT Support"},
		{ID: 2, Name: "HR"},
		{ID: 3, Name: "Facilities"},
		{ID: 4, Name: "Finance"},
		{ID: 5, Name: "Security"},
	}
	priorities := []model.Priority{
		{ID: 1, Name: "Low"},
		{ID: 2, Name: "Medium"},
		{ID: 3, Name: "High"},
		{ID: 4, Name: "Critical"},
	}
	tickets := []model.Ticket{
		{
			ID:          Ticket1ID,
			Title:       "Cannot access email",
			Description: "Getting error when trying to login to email client",
			CategoryID:  1,
			PriorityID:  2,
			Status:      model.StatusOpen,
			CreatedBy:   Requester1ID,
			AssignedTo:  str(Agent1ID),
			CreatedAt:   ago(2 * day),
			UpdatedAt:   ago(2 * day),
		},
		{
			ID:          Ticket2ID,
			Title:       "New laptop request",
			Description: "Need a laptop for new employee starting next week",
			CategoryID:  1,
			PriorityID:  3,
			Status:      model.StatusInProgress,
			CreatedBy:   Requester2ID,
			AssignedTo:  str(Agent2ID),
			CreatedAt:   ago(5 * day),
			UpdatedAt:   ago(1 * day),
		},
		{
			ID:          Ticket3ID,
			Title:       "Printer not working",
			Description: "Office printer showing error code 501",
			CategoryID:  3,
			PriorityID:  1,
			Status:      model.StatusResolved,
			CreatedBy:   Requester1ID,
			AssignedTo:  str(Agent1ID),
			CreatedAt:   ago(7 * day),
			UpdatedAt:   ago(2 * day),
		},
	}
	comments := []model.Comment{
		{
			ID:        "423e4567-e89b-12d3-a456-426614174000",
			TicketID:  Ticket1ID,
			AuthorID:  Agent1ID,
			Content:   "Looking into this issue. Please provide your email client version.",
			CreatedAt: ago(1 * day),
		},
		{
			ID:        "523e4567-e89b-12d3-a456-426614174001",
			TicketID:  Ticket1ID,
			AuthorID:  Requester1ID,
			Content:   "Using Outlook version 16.0.",
			CreatedAt: ago(12 * time.Hour),
		},
		{
			ID:        "623e4567-e89b-12d3-a456-426614174002",
			TicketID:  Ticket2ID,
			AuthorID:  Agent2ID,
			Content:   "Laptop has been ordered. Expected delivery in 2 days.",
			CreatedAt: ago(1 * day),
		},
		{
			ID:        "723e4567-e89b-12d3-a456-426614174003",
			TicketID:  Ticket3ID,
			AuthorID:  Agent1ID,
			Content:   "Printer has been fixed. Paper jam was causing the error.",
			CreatedAt: ago(2 * day),
		},
	}
	history := []model.TicketHistory{
		{
			ID: 1, TicketID: Ticket2ID, ChangedBy: Agent2ID, FieldChanged: "status",
			OldValue: str(string(model.StatusOpen)), NewValue: str(string(model.StatusInProgress)),
			ChangedAt: ago(1 * day),
		},
		{
			ID: 2, TicketID: Ticket3ID, ChangedBy: Agent1ID, FieldChanged: "status",
			OldValue: str(string(model.StatusInProgress)), NewValue: str(string(model.StatusResolved)),
			ChangedAt: ago(2 * day),
		},
		{
			ID: 3, TicketID: Ticket3ID, ChangedBy: Agent1ID, FieldChanged: "assigned_to",
			OldValue: nil, NewValue: str(Agent1ID),
			ChangedAt: ago(5 * day),
		},
	}

	data := Data{}
	var err error
	if data["users"], err = records(users); err != nil {
		return nil, err
	}
	if data["roles"], err = records(roles); err != nil {
		return nil, err
	}
	if data["categories"], err = records(categories); err != nil {
		return nil, err
	}
	if data["priorities"], err = records(priorities); err != nil {
		return nil, err
	}
	if data["tickets"], err = records(tickets); err != nil {
		return nil, err
	}
	if data["comments"], err = records(comments); err != nil {
		return nil, err
	}
	if data["ticket_history"], err = records(history); err != nil {
		return nil, err
	}
	return data, nil
}

func records[T any](items []T) ([]mockdb.Record, error) {
	out := make([]mockdb.Record, 0, len(items))
	for _, item := range items {
		rec, err := model.ToRecord(item)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Merge returns base with every table present in override replaced.
func Merge(base, override Data) Data {
	out := make(Data, len(base)+len(override))
	for name, rows := range base {
		out[name] = rows
	}
	for name, rows := range override {
		out[name] = rows
	}
	return out
}

// NewStore builds an in-memory store holding the default data, with the
// tables of the seed file at path (if not empty) replacing the defaults.
func NewStore(path string, now time.Time, opts ...mockdb.Option) (*mockdb.Store, error) {
	store := mockdb.NewStore(model.Schemas(), opts...)
	if err := Apply(store, path, now); err != nil {
		return nil, err
	}
	return store, nil
}

// Apply resets store to the default data overlaid with the seed file.
func Apply(store *mockdb.Store, path string, now time.Time) error {
	data, err := Default(now)
	if err != nil {
		return err
	}
	if path != "" {
		fileData, err := LoadFile(path)
		if err != nil {
			return err
		}
		data = Merge(data, fileData)
	}
	if err := store.Reset(data); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
