package audit

import (
	"fmt"
	"strings"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// SignupEvent represents an account registration audit event
type SignupEvent struct {
	UserID       string
	Email        string
	Role         string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e SignupEvent) MessageID() string {
	return "signup"
}

func (e SignupEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s signed up as %s", e.Email, e.Role)
	}
	return withError(fmt.Sprintf("%s failed to sign up as %s", e.Email, e.Role), e.ErrorMessage)
}

func (e SignupEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e SignupEvent) Facility() int {
	return FacilityAuth
}

func (e SignupEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
			"role": e.Role,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "signup",
			"result":    result(e.Success),
		},
	}
	if e.UserID != "" {
		sd[SDIDAuth]["id"] = e.UserID
	}
	return sd
}

// LoginEvent represents a password login audit event
type LoginEvent struct {
	UserID       string
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Email)
	}
	return withError(fmt.Sprintf("%s failed to log in", e.Email), e.ErrorMessage)
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result(e.Success),
		},
	}
	if e.UserID != "" {
		sd[SDIDAuth]["id"] = e.UserID
	}
	return sd
}

var pastTense = map[string]string{
	"create": "created",
	"update": "updated",
	"delete": "deleted",
}

// TicketEvent represents a change to a ticket or its comments
type TicketEvent struct {
	UserID       string
	ClientIP     string
	TicketID     string
	Operation    string // "create", "update", "delete", "comment"
	Fields       []string
	Success      bool
	ErrorMessage string
}

func (e TicketEvent) MessageID() string {
	return "ticket"
}

func (e TicketEvent) Message() string {
	target := "ticket " + e.TicketID
	if e.Operation == "create" && e.TicketID == "" {
		target = "a ticket"
	}
	if e.Success {
		switch e.Operation {
		case "comment":
			return fmt.Sprintf("%s commented on %s", e.UserID, target)
		case "update":
			if len(e.Fields) > 0 {
				return fmt.Sprintf("%s updated %s (%s)", e.UserID, target, strings.Join(e.Fields, ", "))
			}
		}
		return fmt.Sprintf("%s %s %s", e.UserID, pastTense[e.Operation], target)
	}
	return withError(fmt.Sprintf("%s tried to %s %s", e.UserID, e.Operation, target), e.ErrorMessage)
}

func (e TicketEvent) Severity() Severity {
	if !e.Success {
		return SeverityWarning
	}
	if e.Operation == "delete" {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e TicketEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TicketEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"ticket": e.TicketID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if len(e.Fields) > 0 {
		sd[SDIDSubject]["fields"] = strings.Join(e.Fields, ",")
	}
	return sd
}

// AccessDeniedEvent represents a request rejected by the role gate
type AccessDeniedEvent struct {
	UserID   string
	Role     string
	ClientIP string
	Method   string
	Path     string
	Allowed  []string
}

func (e AccessDeniedEvent) MessageID() string {
	return "access-denied"
}

func (e AccessDeniedEvent) Message() string {
	return fmt.Sprintf("%s (%s) was denied %s %s", e.UserID, e.Role, e.Method, e.Path)
}

func (e AccessDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessDeniedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
			"role": e.Role,
		},
		SDIDRequest: {
			"method":  e.Method,
			"path":    e.Path,
			"allowed": strings.Join(e.Allowed, ","),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"result": "failure",
		},
	}
}
