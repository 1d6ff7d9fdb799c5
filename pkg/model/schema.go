package model

import "github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"

// Schemas describes every helpdesk table for the in-memory store.
func Schemas() []mockdb.TableSchema {
	return []mockdb.TableSchema{
		{Name: "users", IDField: "id", IDKind: mockdb.IDUUID, Unique: []string{"email"}, CreatedAtField: "created_at"},
		{Name: "roles", Unique: []string{"user_id"}},
		{Name: "categories", IDField: "id", IDKind: mockdb.IDSerial},
		{Name: "priorities", IDField: "id", IDKind: mockdb.IDSerial},
		{Name: "tickets", IDField: "id", IDKind: mockdb.IDUUID, CreatedAtField: "created_at", UpdatedAtField: "updated_at"},
		{Name: "comments", IDField: "id", IDKind: mockdb.IDUUID, CreatedAtField: "created_at"},
		{Name: "ticket_history", IDField: "id", IDKind: mockdb.IDSerial, CreatedAtField: "changed_at"},
	}
}
