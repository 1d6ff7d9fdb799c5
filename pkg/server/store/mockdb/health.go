package mockdb

import (
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
)

// HealthStore reports whether the in-memory tables are reachable
type HealthStore struct {
	client *mockdb.Client
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(client *mockdb.Client) *HealthStore {
	return &HealthStore{client: client}
}

// CheckConnectivity runs a minimal query against the users table
func (s *HealthStore) CheckConnectivity() error {
	return s.client.From("users").Select("id").Range(0, 0).Execute().Err()
}
