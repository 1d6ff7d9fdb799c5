package store

import (
	"errors"
	"strconv"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
)

// ErrTicketNotFound is returned when a ticket doesn't exist
var ErrTicketNotFound = errors.New("ticket not found")

// TicketSelect is the projection used to read tickets with their lookups
const TicketSelect = "*, category:categories!category_id(name), priority:priorities!priority_id(name), " +
	"assignee:users!assigned_to(email), creator:users!created_by(email)"

// TicketOrderColumns lists the columns tickets may be ordered by
var TicketOrderColumns = []string{"created_at", "updated_at", "priority_id", "category_id", "status", "title"}

// ValidTicketOrder reports whether tickets can be ordered by column
func ValidTicketOrder(column string) bool {
	for _, c := range TicketOrderColumns {
		if c == column {
			return true
		}
	}
	return false
}

// TicketFilter narrows and orders a ticket listing.
type TicketFilter struct {
	Status     model.TicketStatus
	CategoryID *int64
	PriorityID *int64
	AssignedTo string
	CreatedBy  string

	// OrderBy defaults to created_at; Ascending defaults to newest first
	OrderBy   string
	Ascending bool

	// From and To select an inclusive, zero-based window of the result
	From *int
	To   *int
}

// TicketView is a ticket with its category, priority, assignee and
// creator resolved
type TicketView struct {
	model.Ticket
	Category *model.NamedRef `json:"category" cbor:"category" gorm:"-"`
	Priority *model.NamedRef `json:"priority" cbor:"priority" gorm:"-"`
	Assignee *model.UserRef  `json:"assignee" cbor:"assignee" gorm:"-"`
	Creator  *model.UserRef  `json:"creator" cbor:"creator" gorm:"-"`
}

// NewTicket holds the fields of a ticket to create
type NewTicket struct {
	Title       string
	Description string
	CategoryID  int64
	PriorityID  int64
	CreatedBy   string
	AssignedTo  *string
}

// TicketPatch holds the fields to change; nil fields are left alone.
// An AssignedTo pointing at "" clears the assignee.
type TicketPatch struct {
	Title       *string
	Description *string
	CategoryID  *int64
	PriorityID  *int64
	Status      *model.TicketStatus
	AssignedTo  *string
}

// Empty reports whether the patch changes nothing
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil &&
		p.PriorityID == nil && p.Status == nil && p.AssignedTo == nil
}

// TicketChange is one field difference between a ticket and a patch
type TicketChange struct {
	Field    string
	OldValue *string
	NewValue *string
	// Value is the column value to write
	Value any
}

// Diff returns the fields of patch that differ from t, in a fixed order.
// Every changed field is written; status, priority_id, category_id and
// assigned_to changes are also recorded in the ticket history.
func (p TicketPatch) Diff(t model.Ticket) []TicketChange {
	var changes []TicketChange
	str := func(s string) *string { return &s }
	num := func(n int64) *string { return str(strconv.FormatInt(n, 10)) }

	if p.Title != nil && *p.Title != t.Title {
		changes = append(changes, TicketChange{Field: "title", OldValue: str(t.Title), NewValue: str(*p.Title), Value: *p.Title})
	}
	if p.Description != nil && *p.Description != t.Description {
		changes = append(changes, TicketChange{Field: "description", OldValue: str(t.Description), NewValue: str(*p.Description), Value: *p.Description})
	}
	if p.CategoryID != nil && *p.CategoryID != t.CategoryID {
		changes = append(changes, TicketChange{Field: "category_id", OldValue: num(t.CategoryID), NewValue: num(*p.CategoryID), Value: *p.CategoryID})
	}
	if p.PriorityID != nil && *p.PriorityID != t.PriorityID {
		changes = append(changes, TicketChange{Field: "priority_id", OldValue: num(t.PriorityID), NewValue: num(*p.PriorityID), Value: *p.PriorityID})
	}
	if p.Status != nil && *p.Status != t.Status {
		changes = append(changes, TicketChange{Field: "status", OldValue: str(string(t.Status)), NewValue: str(string(*p.Status)), Value: string(*p.Status)})
	}
	if p.AssignedTo != nil {
		var next *string
		if *p.AssignedTo != "" {
			next = str(*p.AssignedTo)
		}
		if !sameRef(t.AssignedTo, next) {
			var value any
			if next != nil {
				value = *next
			}
			changes = append(changes, TicketChange{Field: "assigned_to", OldValue: t.AssignedTo, NewValue: next, Value: value})
		}
	}
	return changes
}

// Tracked reports whether changes to field are kept in the ticket history
func (c TicketChange) Tracked() bool {
	switch c.Field {
	case "status", "priority_id", "category_id", "assigned_to":
		return true
	}
	return false
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// TicketsStore abstracts ticket storage operations
type TicketsStore interface {
	// ListTickets returns the tickets matching filter
	ListTickets(filter TicketFilter) ([]TicketView, error)

	// FetchTicket returns a single ticket.
	// Returns ErrTicketNotFound if it doesn't exist.
	FetchTicket(id string) (*TicketView, error)

	// CreateTicket inserts a ticket with status Open
	CreateTicket(t NewTicket) (*TicketView, error)

	// UpdateTicket applies patch and records tracked changes as ticket
	// history attributed to changedBy. It returns the updated ticket and
	// the history rows written.
	UpdateTicket(id, changedBy string, patch TicketPatch) (*TicketView, []model.TicketHistory, error)

	// DeleteTicket removes a ticket with its comments and history.
	// Returns ErrTicketNotFound if it doesn't exist.
	DeleteTicket(id string) error

	// ListHistory returns the ticket's history, newest first
	ListHistory(ticketID string) ([]model.TicketHistory, error)
}
