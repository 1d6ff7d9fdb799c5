// Package seed provides the helpdesk demo data for the in-memory backend.
//
// Default returns the built-in data set: five users (one admin, two agents,
// two requesters), five categories, four priorities, three tickets with
// comments and history. Timestamps are relative to the supplied time.
//
// A YAML seed file may replace whole tables:
//
//	categories:
//	  - {id: 1, name: Hardware}
//	  - {id: 2, name: Software}
//
// Watch reapplies the seed to a store whenever the file changes.
package seed
