// internal/catalog/store.go
package catalog

import (
	"adserve-core/internal/models"
)

// Store is the in-memory product catalog. Built once at startup and read-only
// afterwards, so concurrent reads need no locking.
type Store struct {
	products []*models.Product
	byID     map[string]*models.Product
}

func NewStore(products []*models.Product) *Store {
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{products: products, byID: byID}
}

// Products returns every product in insertion order. Callers must not mutate
// the returned slice.
func (s *Store) Products() []*models.Product {
	return s.products
}

// Get returns the product with the given id, or nil.
func (s *Store) Get(id string) *models.Product {
	return s.byID[id]
}

// Len returns the number of products in the catalog.
func (s *Store) Len() int {
	return len(s.products)
}
