package repository

import (
	"context"
	"fmt"

	"finmarket/domain"
)

// CatalogRepositoryMemory serves a catalog held in memory.
type CatalogRepositoryMemory struct {
	products []domain.Product
	byID     map[int]int
	reviews  []domain.Review
}

// NewCatalogRepositoryMemory creates a catalog repository over c.
func NewCatalogRepositoryMemory(c domain.Catalog) *CatalogRepositoryMemory {
	byID := make(map[int]int, len(c.Products))
	for i, p := range c.Products {
		byID[p.ID] = i
	}
	return &CatalogRepositoryMemory{
		products: c.Products,
		byID:     byID,
		reviews:  c.Reviews,
	}
}

// Products returns a copy so callers cannot reorder the catalog.
func (r *CatalogRepositoryMemory) Products(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *CatalogRepositoryMemory) Product(_ context.Context, id int) (domain.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return r.products[i], nil
}

func (r *CatalogRepositoryMemory) Reviews(_ context.Context) ([]domain.Review, error) {
	out := make([]domain.Review, len(r.reviews))
	copy(out, r.reviews)
	return out, nil
}
