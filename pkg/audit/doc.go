// Package audit provides audit logging for helpdesk operations.
//
// This package implements structured audit logging for security-relevant
// operations such as logins, account creation and ticket changes.
//
// # Event Types
//
//   - SignupEvent: account registration
//   - LoginEvent: password login (success/failure)
//   - TicketEvent: ticket create, update, delete and comment
//   - AccessDeniedEvent: requests rejected by the role gate
//
// # Usage
//
//	audit.Log(audit.LoginEvent{
//	    Email:    email,
//	    ClientIP: ip,
//	    Success:  true,
//	})
//
// Events are written to stdout in RFC5424 syslog format and, when
// HELPDESK_AUDIT_DATABASE_URL is set, saved to its messages table.
package audit
