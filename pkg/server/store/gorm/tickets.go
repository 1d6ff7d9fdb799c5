package gorm

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure TicketsStore implements store.TicketsStore
var _ store.TicketsStore = (*TicketsStore)(nil)

const ticketColumns = "tickets.*, categories.name AS category_name, priorities.name AS priority_name, " +
	"assignee.email AS assignee_email, creator.email AS creator_email"

// ticketRow is a ticket joined with its lookups
type ticketRow struct {
	model.Ticket
	CategoryName  *string `gorm:"column:category_name"`
	PriorityName  *string `gorm:"column:priority_name"`
	AssigneeEmail *string `gorm:"column:assignee_email"`
	CreatorEmail  *string `gorm:"column:creator_email"`
}

func (r ticketRow) view() store.TicketView {
	v := store.TicketView{Ticket: r.Ticket}
	if r.CategoryName != nil {
		v.Category = &model.NamedRef{Name: *r.CategoryName}
	}
	if r.PriorityName != nil {
		v.Priority = &model.NamedRef{Name: *r.PriorityName}
	}
	if r.AssigneeEmail != nil {
		v.Assignee = &model.UserRef{Email: *r.AssigneeEmail}
	}
	if r.CreatorEmail != nil {
		v.Creator = &model.UserRef{Email: *r.CreatorEmail}
	}
	return v
}

// TicketsStore implements store.TicketsStore using GORM
type TicketsStore struct {
	db *gorm.DB
}

// NewTicketsStore creates a new TicketsStore
func NewTicketsStore(db *gorm.DB) *TicketsStore {
	return &TicketsStore{db: db}
}

func ticketQuery(db *gorm.DB) *gorm.DB {
	return db.Table("tickets").
		Select(ticketColumns).
		Joins("LEFT JOIN categories ON categories.id = tickets.category_id").
		Joins("LEFT JOIN priorities ON priorities.id = tickets.priority_id").
		Joins("LEFT JOIN users AS assignee ON assignee.id = tickets.assigned_to").
		Joins("LEFT JOIN users AS creator ON creator.id = tickets.created_by")
}

// ListTickets returns the tickets matching filter.
func (s *TicketsStore) ListTickets(filter store.TicketFilter) ([]store.TicketView, error) {
	q := ticketQuery(s.db)
	if filter.Status != "" {
		q = q.Where("tickets.status = ?", string(filter.Status))
	}
	if filter.CategoryID != nil {
		q = q.Where("tickets.category_id = ?", *filter.CategoryID)
	}
	if filter.PriorityID != nil {
		q = q.Where("tickets.priority_id = ?", *filter.PriorityID)
	}
	if filter.AssignedTo != "" {
		q = q.Where("tickets.assigned_to = ?", filter.AssignedTo)
	}
	if filter.CreatedBy != "" {
		q = q.Where("tickets.created_by = ?", filter.CreatedBy)
	}

	order := filter.OrderBy
	if order == "" || !store.ValidTicketOrder(order) {
		order = "created_at"
	}
	q = q.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "tickets", Name: order},
		Desc:   !filter.Ascending,
	})

	if filter.From != nil || filter.To != nil {
		from := 0
		if filter.From != nil {
			from = *filter.From
		}
		q = q.Offset(from)
		if filter.To != nil {
			if *filter.To < from {
				return []store.TicketView{}, nil
			}
			if span := *filter.To - from; span < math.MaxInt {
				q = q.Limit(span + 1)
			}
		}
	}

	var rows []ticketRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]store.TicketView, len(rows))
	for i, row := range rows {
		views[i] = row.view()
	}
	return views, nil
}

// FetchTicket returns a single ticket with its lookups resolved.
func (s *TicketsStore) FetchTicket(id string) (*store.TicketView, error) {
	return fetchTicket(s.db, id)
}

func fetchTicket(db *gorm.DB, id string) (*store.TicketView, error) {
	var rows []ticketRow
	if err := ticketQuery(db).Where("tickets.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrTicketNotFound
	}
	v := rows[0].view()
	return &v, nil
}

// CreateTicket inserts a ticket with status Open.
func (s *TicketsStore) CreateTicket(t store.NewTicket) (*store.TicketView, error) {
	ticket := model.Ticket{
		ID:          uuid.NewString(),
		Title:       t.Title,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		PriorityID:  t.PriorityID,
		Status:      model.StatusOpen,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
	}
	if err := s.db.Omit("created_at", "updated_at").Create(&ticket).Error; err != nil {
		return nil, err
	}
	return s.FetchTicket(ticket.ID)
}

// UpdateTicket applies patch and records tracked changes as history in a
// single transaction.
func (s *TicketsStore) UpdateTicket(id, changedBy string, patch store.TicketPatch) (*store.TicketView, []model.TicketHistory, error) {
	var updated *store.TicketView
	var history []model.TicketHistory

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := fetchTicket(tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "tickets"}}), id)
		if err != nil {
			return err
		}

		changes := patch.Diff(current.Ticket)
		if len(changes) == 0 {
			updated = current
			return nil
		}

		columns := map[string]interface{}{"updated_at": gorm.Expr("now()")}
		var entries []model.TicketHistory
		for _, c := range changes {
			columns[c.Field] = c.Value
			if c.Tracked() {
				entries = append(entries, model.TicketHistory{
					TicketID:     id,
					ChangedBy:    changedBy,
					FieldChanged: c.Field,
					OldValue:     c.OldValue,
					NewValue:     c.NewValue,
				})
			}
		}

		if err := tx.Model(&model.Ticket{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return err
		}

		if len(entries) > 0 {
			if err := tx.Omit("changed_at").Create(&entries).Error; err != nil {
				return err
			}
			ids := make([]int64, len(entries))
			for i, e := range entries {
				ids[i] = e.ID
			}
			if err := tx.Where("id IN ?", ids).Order("id").Find(&history).Error; err != nil {
				return err
			}
		}

		updated, err = fetchTicket(tx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, history, nil
}

// DeleteTicket removes a ticket; comments and history go with it through
// ON DELETE CASCADE.
func (s *TicketsStore) DeleteTicket(id string) error {
	tx := s.db.Where("id = ?", id).Delete(&model.Ticket{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrTicketNotFound
	}
	return nil
}

// ListHistory returns the ticket's history, newest first.
func (s *TicketsStore) ListHistory(ticketID string) ([]model.TicketHistory, error) {
	history := []model.TicketHistory{}
	err := s.db.Where("ticket_id = ?", ticketID).Order("changed_at DESC").Order("id DESC").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
