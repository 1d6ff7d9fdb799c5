package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.hostname = "desk-01"
	logger.pid = 42
	logger.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	logger.Log(LoginEvent{
		UserID:   "user-1",
		Email:    "agent1@test.com",
		ClientIP: "192.168.1.1",
		Success:  true,
	})

	want := `<86>1 2024-03-10T12:00:00.000Z desk-01 helpdesk 42 login ` +
		`[action@32473 operation="login" result="success"]` +
		`[auth@32473 id="user-1" user="agent1@test.com"]` +
		`[client@32473 ip="192.168.1.1"] agent1@test.com successfully logged in` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Log() wrote\n%q\nwant\n%q", got, want)
	}
}

func TestLoggerEmptyHostname(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.hostname = ""

	logger.Log(LoginEvent{Email: "a@test.com", Success: true})

	if !strings.Contains(buf.String(), " - helpdesk ") {
		t.Errorf("expected '-' hostname, got %q", buf.String())
	}
}

func TestSignupEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   SignupEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "successful signup",
			event:   SignupEvent{UserID: "user-1", Email: "new@test.com", Role: "agent", Success: true},
			wantMsg: "new@test.com signed up as agent",
			wantSev: SeverityNotice,
		},
		{
			name:    "duplicate email",
			event:   SignupEvent{Email: "new@test.com", Role: "agent", ErrorMessage: "a user with this email already exists"},
			wantMsg: "new@test.com failed to sign up as agent: a user with this email already exists",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityAuth {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuth)
			}
			if tt.event.MessageID() != "signup" {
				t.Errorf("MessageID() = %v, want 'signup'", tt.event.MessageID())
			}
		})
	}
}

func TestLoginEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   LoginEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "successful login",
			event:   LoginEvent{Email: "agent1@test.com", Success: true},
			wantMsg: "successfully logged in",
			wantSev: SeverityInfo,
		},
		{
			name:    "bad password",
			event:   LoginEvent{Email: "agent1@test.com", ErrorMessage: "Invalid email or password"},
			wantMsg: "failed to log in: Invalid email or password",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "login" {
				t.Errorf("MessageID() = %v, want 'login'", tt.event.MessageID())
			}
		})
	}
}

func TestTicketEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   TicketEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "create",
			event:   TicketEvent{UserID: "user-1", TicketID: "t-1", Operation: "create", Success: true},
			wantMsg: "user-1 created ticket t-1",
			wantSev: SeverityInfo,
		},
		{
			name:    "failed create",
			event:   TicketEvent{UserID: "user-1", Operation: "create", ErrorMessage: "title is required"},
			wantMsg: "user-1 tried to create a ticket: title is required",
			wantSev: SeverityWarning,
		},
		{
			name:    "update with fields",
			event:   TicketEvent{UserID: "agent-1", TicketID: "t-1", Operation: "update", Fields: []string{"status", "assigned_to"}, Success: true},
			wantMsg: "agent-1 updated ticket t-1 (status, assigned_to)",
			wantSev: SeverityInfo,
		},
		{
			name:    "delete",
			event:   TicketEvent{UserID: "admin-1", TicketID: "t-1", Operation: "delete", Success: true},
			wantMsg: "admin-1 deleted ticket t-1",
			wantSev: SeverityNotice,
		},
		{
			name:    "comment",
			event:   TicketEvent{UserID: "user-1", TicketID: "t-1", Operation: "comment", Success: true},
			wantMsg: "user-1 commented on ticket t-1",
			wantSev: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "ticket" {
				t.Errorf("MessageID() = %v, want 'ticket'", tt.event.MessageID())
			}
		})
	}
}

func TestAccessDeniedEvent(t *testing.T) {
	event := AccessDeniedEvent{
		UserID:   "user-1",
		Role:     "requester",
		ClientIP: "10.0.0.1",
		Method:   "DELETE",
		Path:     "/api/tickets/t-1",
		Allowed:  []string{"admin"},
	}

	if got := event.Message(); got != "user-1 (requester) was denied DELETE /api/tickets/t-1" {
		t.Errorf("Message() = %q", got)
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", event.Severity(), SeverityWarning)
	}
	if sd := event.StructuredData(); sd[SDIDRequest]["allowed"] != "admin" {
		t.Errorf("StructuredData request.allowed = %v, want 'admin'", sd[SDIDRequest]["allowed"])
	}
}

func TestStructuredData(t *testing.T) {
	event := TicketEvent{
		UserID:    "agent-1",
		ClientIP:  "10.0.0.1",
		TicketID:  "t-1",
		Operation: "update",
		Fields:    []string{"status"},
		Success:   true,
	}

	sd := event.StructuredData()

	if sd[SDIDAuth]["user"] != "agent-1" {
		t.Errorf("StructuredData auth.user = %v, want 'agent-1'", sd[SDIDAuth]["user"])
	}
	if sd[SDIDSubject]["ticket"] != "t-1" {
		t.Errorf("StructuredData subject.ticket = %v, want 't-1'", sd[SDIDSubject]["ticket"])
	}
	if sd[SDIDSubject]["fields"] != "status" {
		t.Errorf("StructuredData subject.fields = %v, want 'status'", sd[SDIDSubject]["fields"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.1" {
		t.Errorf("StructuredData client.ip = %v, want '10.0.0.1'", sd[SDIDClient]["ip"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData action.result = %v, want 'success'", sd[SDIDAction]["result"])
	}
}

func TestAuditToggle(t *testing.T) {
	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
	}()

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
