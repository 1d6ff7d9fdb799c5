// Package store provides storage abstractions for the helpdesk server.
//
// This package defines interfaces for data access, allowing the server
// endpoints to be decoupled from the backend. Two implementations exist:
//
//   - store/mockdb: the in-memory query engine, used when USE_MOCK_DB=true
//   - store/gorm: Postgres through GORM
//
// # Available Stores
//
//   - UsersStore: accounts and roles
//   - TicketsStore: tickets and their change history
//   - CommentsStore: ticket comments
//   - CatalogStore: categories and priorities
//   - HealthStore: backend connectivity
//
// # Usage
//
//	tickets := mockdb.NewTicketsStore(client)
//	ticket, err := tickets.FetchTicket(id)
//	if errors.Is(err, store.ErrTicketNotFound) {
//	    // Handle not found
//	}
package store
