package mockdb

import (
	"math"
	"sync"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure TicketsStore implements store.TicketsStore
var _ store.TicketsStore = (*TicketsStore)(nil)

// TicketsStore implements store.TicketsStore using the in-memory engine.
// Updates and deletes of one ticket are serialised, so the old values in
// ticket history always chain.
type TicketsStore struct {
	client *mockdb.Client
	locks  sync.Map // ticket id -> *sync.Mutex
}

// NewTicketsStore creates a new TicketsStore
func NewTicketsStore(client *mockdb.Client) *TicketsStore {
	return &TicketsStore{client: client}
}

func (s *TicketsStore) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// ListTickets returns the tickets matching filter.
func (s *TicketsStore) ListTickets(filter store.TicketFilter) ([]store.TicketView, error) {
	q := s.client.From("tickets").Select(store.TicketSelect)
	if filter.Status != "" {
		q.Eq("status", string(filter.Status))
	}
	if filter.CategoryID != nil {
		q.Eq("category_id", *filter.CategoryID)
	}
	if filter.PriorityID != nil {
		q.Eq("priority_id", *filter.PriorityID)
	}
	if filter.AssignedTo != "" {
		q.Eq("assigned_to", filter.AssignedTo)
	}
	if filter.CreatedBy != "" {
		q.Eq("created_by", filter.CreatedBy)
	}

	order := filter.OrderBy
	if order == "" {
		order = "created_at"
	}
	q.Order(order, filter.Ascending)

	if filter.From != nil || filter.To != nil {
		from, to := 0, math.MaxInt
		if filter.From != nil {
			from = *filter.From
		}
		if filter.To != nil {
			to = *filter.To
		}
		q.Range(from, to)
	}

	res := q.Execute()
	if err := res.Err(); err != nil {
		return nil, err
	}
	return model.FromRecords[store.TicketView](res.Data)
}

// FetchTicket returns a single ticket with its lookups resolved.
func (s *TicketsStore) FetchTicket(id string) (*store.TicketView, error) {
	res := s.client.From("tickets").Select(store.TicketSelect).Eq("id", id).Single()
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, store.ErrTicketNotFound
	}
	return model.FromRecord[store.TicketView](res.Data)
}

// CreateTicket inserts a ticket with status Open.
func (s *TicketsStore) CreateTicket(t store.NewTicket) (*store.TicketView, error) {
	rec, err := model.ToRecord(model.Ticket{
		Title:       t.Title,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		PriorityID:  t.PriorityID,
		Status:      model.StatusOpen,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
	})
	if err != nil {
		return nil, err
	}

	res := s.client.From("tickets").Insert(rec)
	if err := res.Err(); err != nil {
		return nil, err
	}
	id, _ := res.Data[0]["id"].(string)
	return s.FetchTicket(id)
}

// UpdateTicket applies patch and records tracked changes as history.
func (s *TicketsStore) UpdateTicket(id, changedBy string, patch store.TicketPatch) (*store.TicketView, []model.TicketHistory, error) {
	defer s.lock(id)()

	current, err := s.FetchTicket(id)
	if err != nil {
		return nil, nil, err
	}

	changes := patch.Diff(current.Ticket)
	if len(changes) == 0 {
		return current, nil, nil
	}

	update := mockdb.Record{}
	var entries []mockdb.Record
	for _, c := range changes {
		update[c.Field] = c.Value
		if !c.Tracked() {
			continue
		}
		entries = append(entries, mockdb.Record{
			"ticket_id":     id,
			"changed_by":    changedBy,
			"field_changed": c.Field,
			"old_value":     stringOrNil(c.OldValue),
			"new_value":     stringOrNil(c.NewValue),
		})
	}

	res := s.client.From("tickets").Eq("id", id).Update(update)
	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	if len(res.Data) == 0 {
		return nil, nil, store.ErrTicketNotFound
	}

	var history []model.TicketHistory
	if len(entries) > 0 {
		hres := s.client.From("ticket_history").Insert(entries...)
		if err := hres.Err(); err != nil {
			return nil, nil, err
		}
		history, err = model.FromRecords[model.TicketHistory](hres.Data)
		if err != nil {
			return nil, nil, err
		}
	}

	updated, err := s.FetchTicket(id)
	if err != nil {
		return nil, nil, err
	}
	return updated, history, nil
}

// DeleteTicket removes a ticket with its comments and history.
func (s *TicketsStore) DeleteTicket(id string) error {
	defer s.lock(id)()

	res := s.client.From("tickets").Eq("id", id).Delete()
	if err := res.Err(); err != nil {
		return err
	}
	if len(res.Data) == 0 {
		return store.ErrTicketNotFound
	}
	if err := s.client.From("comments").Eq("ticket_id", id).Delete().Err(); err != nil {
		return err
	}
	return s.client.From("ticket_history").Eq("ticket_id", id).Delete().Err()
}

// ListHistory returns the ticket's history, newest first.
func (s *TicketsStore) ListHistory(ticketID string) ([]model.TicketHistory, error) {
	res := s.client.From("ticket_history").
		Eq("ticket_id", ticketID).
		Order("changed_at", false).
		Execute()
	if err := res.Err(); err != nil {
		return nil, err
	}
	return model.FromRecords[model.TicketHistory](res.Data)
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
