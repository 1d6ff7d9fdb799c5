package mockdb

import (
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure CatalogStore implements store.CatalogStore
var _ store.CatalogStore = (*CatalogStore)(nil)

// CatalogStore implements store.CatalogStore using the in-memory engine
type CatalogStore struct {
	client *mockdb.Client
}

// NewCatalogStore creates a new CatalogStore
func NewCatalogStore(client *mockdb.Client) *CatalogStore {
	return &CatalogStore{client: client}
}

// ListCategories returns every category ordered by id
func (s *CatalogStore) ListCategories() ([]model.Category, error) {
	res := s.client.From("categories").Order("id", true).Execute()
	if err := res.Err(); err != nil {
		return nil, err
	}
	return model.FromRecords[model.Category](res.Data)
}

// ListPriorities returns every priority ordered by id
func (s *CatalogStore) ListPriorities() ([]model.Priority, error) {
	res := s.client.From("priorities").Order("id", true).Execute()
	if err := res.Err(); err != nil {
		return nil, err
	}
	return model.FromRecords[model.Priority](res.Data)
}
