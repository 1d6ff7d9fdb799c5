package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

const insertMessage = `
	INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid,
		user_id, ticket_id, client_ip, success, sdata, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Store persists audit events to the messages table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Message is one row of the messages table. Besides the syslog fields it
// carries the actor, the ticket and the outcome as columns so the audit
// trail of a user or ticket can be queried without reading sdata.
type Message struct {
	Facility  int
	Severity  int
	Timestamp time.Time
	Hostname  string
	Appname   string
	Procid    int
	Msgid     string
	UserID    sql.NullString
	TicketID  sql.NullString
	ClientIP  sql.NullString
	Success   bool
	Sdata     map[string]map[string]string
	Message   string
}

// newMessage flattens event into a row.
func newMessage(event Event, at time.Time, hostname string) Message {
	m := Message{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: at.UTC(),
		Hostname:  hostname,
		Appname:   appName,
		Procid:    os.Getpid(),
		Msgid:     event.MessageID(),
		Sdata:     event.StructuredData(),
		Message:   event.Message(),
	}

	switch e := event.(type) {
	case SignupEvent:
		m.UserID, m.ClientIP, m.Success = nullString(e.UserID), nullString(e.ClientIP), e.Success
	case LoginEvent:
		m.UserID, m.ClientIP, m.Success = nullString(e.UserID), nullString(e.ClientIP), e.Success
	case TicketEvent:
		m.UserID, m.ClientIP, m.Success = nullString(e.UserID), nullString(e.ClientIP), e.Success
		m.TicketID = nullString(e.TicketID)
	case AccessDeniedEvent:
		m.UserID, m.ClientIP = nullString(e.UserID), nullString(e.ClientIP)
	}
	return m
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NewStore opens the database named by HELPDESK_AUDIT_DATABASE_URL. It
// returns nil when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("HELPDESK_AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists event.
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	hostname, _ := os.Hostname()
	m := newMessage(event, now(), hostname)

	sdataJSON, err := json.Marshal(m.Sdata)
	if err != nil {
		return fmt.Errorf("encode audit sdata: %w", err)
	}

	if _, err := s.db.Exec(insertMessage,
		m.Facility,
		m.Severity,
		m.Timestamp,
		m.Hostname,
		m.Appname,
		m.Procid,
		m.Msgid,
		m.UserID,
		m.TicketID,
		m.ClientIP,
		m.Success,
		sdataJSON,
		m.Message,
	); err != nil {
		return fmt.Errorf("save audit %s event: %w", m.Msgid, err)
	}
	return nil
}
