package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure CatalogStore implements store.CatalogStore
var _ store.CatalogStore = (*CatalogStore)(nil)

// CatalogStore implements store.CatalogStore using GORM
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a new CatalogStore
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ListCategories returns every category ordered by id
func (s *CatalogStore) ListCategories() ([]model.Category, error) {
	categories := []model.Category{}
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPriorities returns every priority ordered by id
func (s *CatalogStore) ListPriorities() ([]model.Priority, error) {
	priorities := []model.Priority{}
	if err := s.db.Order("id").Find(&priorities).Error; err != nil {
		return nil, err
	}
	return priorities, nil
}
