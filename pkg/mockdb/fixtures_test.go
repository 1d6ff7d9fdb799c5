package mockdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

var testSchemas = []TableSchema{
	{Name: "users", IDField: "id", IDKind: IDUUID, Unique: []string{"email"}, CreatedAtField: "created_at"},
	{Name: "roles", Unique: []string{"user_id"}},
	{Name: "categories", IDField: "id", IDKind: IDSerial},
	{Name: "priorities", IDField: "id", IDKind: IDSerial},
	{Name: "tickets", IDField: "id", IDKind: IDUUID, CreatedAtField: "created_at", UpdatedAtField: "updated_at"},
	{Name: "ticket_history", IDField: "id", IDKind: IDSerial, CreatedAtField: "changed_at"},
}

const (
	adminID     = "d7bed82c-5f89-4d49-9fde-10c35d304783"
	agentID     = "b9c9c8d2-efb9-4a77-a9f3-c53c1e5f3c81"
	requesterID = "e4a79e67-d751-4c47-93c7-2c3c60c938d9"

	emailTicketID   = "123e4567-e89b-12d3-a456-426614174000"
	laptopTicketID  = "223e4567-e89b-12d3-a456-426614174001"
	printerTicketID = "323e4567-e89b-12d3-a456-426614174002"
)

func daysAgo(n int) string {
	return Timestamp(fixedNow.AddDate(0, 0, -n))
}

func fixtureData() map[string][]Record {
	return map[string][]Record{
		"users": {
			{"id": adminID, "email": "admin@test.com", "password": "hash", "created_at": daysAgo(30)},
			{"id": agentID, "email": "agent1@test.com", "password": "hash", "created_at": daysAgo(20)},
			{"id": requesterID, "email": "user1@test.com", "password": "hash", "created_at": daysAgo(10)},
		},
		"roles": {
			{"user_id": adminID, "role": "admin"},
			{"user_id": agentID, "role": "agent"},
			{"user_id": requesterID, "role": "requester"},
		},
		"categories": {
			{"id": 1, "name": "IT Support"},
			{"id": 2, "name": "HR"},
			{"id": 3, "name": "Facilities"},
		},
		"priorities": {
			{"id": 1, "name": "Low"},
			{"id": 2, "name": "Medium"},
			{"id": 3, "name": "High"},
		},
		"tickets": {
			{
				"id": emailTicketID, "title": "Cannot access email", "category_id": 1, "priority_id": 2,
				"status": "Open", "created_by": requesterID, "assigned_to": agentID,
				"created_at": daysAgo(2), "updated_at": daysAgo(2),
			},
			{
				"id": laptopTicketID, "title": "New laptop request", "category_id": 1, "priority_id": 3,
				"status": "In Progress", "created_by": requesterID, "assigned_to": nil,
				"created_at": daysAgo(5), "updated_at": daysAgo(1),
			},
			{
				"id": printerTicketID, "title": "Printer not working", "category_id": 3, "priority_id": 1,
				"status": "Resolved", "created_by": requesterID, "assigned_to": agentID,
				"created_at": daysAgo(7), "updated_at": daysAgo(2),
			},
		},
	}
}

// newTestClient returns a client over a freshly seeded store with a fixed
// clock and predictable identifiers.
func newTestClient(t testing.TB) *Client {
	t.Helper()
	var seq atomic.Int64
	store := NewStore(testSchemas,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			return fmt.Sprintf("generated-%d", seq.Add(1))
		}),
	)
	require.NoError(t, store.Reset(fixtureData()))
	return NewClient(store)
}

func titles(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["title"].(string)
	}
	return out
}
