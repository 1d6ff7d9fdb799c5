package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	event := LoginEvent{
		UserID:   "user-1",
		Email:    "agent1@test.com",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			at,                // timestamp
			sqlmock.AnyArg(),  // hostname
			"helpdesk",        // appname
			sqlmock.AnyArg(),  // procid
			"login",           // msgid
			"user-1",          // user_id
			nil,               // ticket_id
			"10.0.0.1",        // client_ip
			true,              // success
			sqlmock.AnyArg(),  // sdata (JSON)
			"agent1@test.com successfully logged in",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveSignupEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := SignupEvent{
		UserID:   "user-1",
		Email:    "new@test.com",
		Role:     "requester",
		ClientIP: "192.168.1.1",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityNotice),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"helpdesk",
			sqlmock.AnyArg(),
			"signup",
			"user-1",
			nil,
			"192.168.1.1",
			true,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := TicketEvent{
		UserID:       "user-1",
		ClientIP:     "10.0.0.1",
		TicketID:     "t-1",
		Operation:    "delete",
		Success:      false,
		ErrorMessage: "Forbidden",
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning), // Failed events have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"helpdesk",
			sqlmock.AnyArg(),
			"ticket",
			"user-1",
			"t-1",
			"10.0.0.1",
			false,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).WillReturnError(errors.New("relation \"messages\" does not exist"))

	if err := store.Save(LoginEvent{Email: "a@test.com"}); err == nil {
		t.Error("Save() should return the database error")
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	// Should not error when db is nil
	err := store.Save(LoginEvent{Email: "a@test.com", Success: true})
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("HELPDESK_AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("NewStore() should return nil when no database is configured")
	}
}

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	m := newMessage(AccessDeniedEvent{
		UserID:   "user-2",
		Role:     "requester",
		ClientIP: "10.0.0.2",
		Method:   "DELETE",
		Path:     "/api/tickets/t-1",
		Allowed:  []string{"admin"},
	}, at, "host-1")

	if m.Msgid != "access-denied" || m.Hostname != "host-1" || m.Appname != "helpdesk" {
		t.Errorf("unexpected header fields: %+v", m)
	}
	if !m.Timestamp.Equal(at) || m.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want %v in UTC", m.Timestamp, at)
	}
	if m.UserID.String != "user-2" || !m.UserID.Valid {
		t.Errorf("UserID = %+v", m.UserID)
	}
	if m.TicketID.Valid {
		t.Errorf("TicketID should be null, got %+v", m.TicketID)
	}
	if m.Success {
		t.Error("access-denied rows should not be marked successful")
	}
	if m.Sdata[SDIDRequest]["path"] != "/api/tickets/t-1" {
		t.Errorf("Sdata = %v", m.Sdata)
	}
}
