package model

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusResolved   TicketStatus = "Resolved"
	StatusClosed     TicketStatus = "Closed"
)

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Ticket is a support request.
type Ticket struct {
	ID          string       `json:"id" gorm:"column:id;primaryKey"`
	Title       string       `json:"title" gorm:"column:title"`
	Description string       `json:"description" gorm:"column:description"`
	CategoryID  int64        `json:"category_id" gorm:"column:category_id"`
	PriorityID  int64        `json:"priority_id" gorm:"column:priority_id"`
	Status      TicketStatus `json:"status" gorm:"column:status"`
	CreatedBy   string       `json:"created_by" gorm:"column:created_by"`
	AssignedTo  *string      `json:"assigned_to" gorm:"column:assigned_to"`
	CreatedAt   string       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   string       `json:"updated_at" gorm:"column:updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Comment is a message on a ticket.
type Comment struct {
	ID        string `json:"id" gorm:"column:id;primaryKey"`
	TicketID  string `json:"ticket_id" gorm:"column:ticket_id"`
	AuthorID  string `json:"author_id" gorm:"column:author_id"`
	Content   string `json:"content" gorm:"column:content"`
	CreatedAt string `json:"created_at" gorm:"column:created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// TicketHistory records one field change on a ticket.
type TicketHistory struct {
	ID           int64   `json:"id" gorm:"column:id;primaryKey"`
	TicketID     string  `json:"ticket_id" gorm:"column:ticket_id"`
	ChangedBy    string  `json:"changed_by" gorm:"column:changed_by"`
	FieldChanged string  `json:"field_changed" gorm:"column:field_changed"`
	OldValue     *string `json:"old_value" gorm:"column:old_value"`
	NewValue     *string `json:"new_value" gorm:"column:new_value"`
	ChangedAt    string  `json:"changed_at" gorm:"column:changed_at"`
}

func (TicketHistory) TableName() string {
	return "ticket_history"
}
