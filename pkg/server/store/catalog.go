package store

import "github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"

// CatalogStore serves the fixed lookup tables
type CatalogStore interface {
	// ListCategories returns every category ordered by id
	ListCategories() ([]model.Category, error)

	// ListPriorities returns every priority ordered by id
	ListPriorities() ([]model.Priority, error)
}
