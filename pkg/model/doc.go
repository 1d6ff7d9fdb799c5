// Package model defines the helpdesk records.
//
// Each struct maps to one table and carries three sets of tags: json for
// the HTTP API, gorm for the Postgres backend and (where they differ) cbor
// for conversion to and from mockdb records.
//
// # Tables
//
//   - users: accounts with bcrypt password hashes
//   - roles: one role per user (admin, agent or requester)
//   - categories, priorities: fixed lookup tables
//   - tickets: support requests
//   - comments: discussion on a ticket
//   - ticket_history: one row per changed ticket field
//
// # Records
//
// The in-memory backend stores untyped records. ToRecord and FromRecord
// convert between those and the structs in this package:
//
//	rec, err := model.ToRecord(ticket)
//	ticket, err := model.FromRecord[model.Ticket](rec)
//
// Schemas returns the table layout the in-memory store is built with.
package model
