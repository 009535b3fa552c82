package repository

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"finmarket/domain"
)

//go:embed fixtures/catalog.yaml
var defaultCatalog []byte

// CatalogRepository is the read-only catalog provider for products and
// reviews. Products and reviews are returned in catalog order.
type CatalogRepository interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int) (domain.Product, error)
	Reviews(ctx context.Context) ([]domain.Review, error)
}

// DefaultCatalog decodes the embedded sample catalog.
func DefaultCatalog() (domain.Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog YAML file, falling back to the embedded
// catalog when path is empty.
func LoadCatalog(path string) (domain.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(raw []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[int]bool, len(c.Products))
	for _, p := range c.Products {
		if seen[p.ID] {
			return domain.Catalog{}, fmt.Errorf("duplicate product id %d: %w", p.ID, domain.ErrInvalidInput)
		}
		if !p.Category.Valid() {
			return domain.Catalog{}, fmt.Errorf("product %d has unknown type %q: %w", p.ID, p.Category, domain.ErrInvalidInput)
		}
		seen[p.ID] = true
	}
	for _, r := range c.Reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return domain.Catalog{}, fmt.Errorf("review %d rating %d out of range: %w", r.ID, r.Rating, domain.ErrInvalidInput)
		}
	}
	return c, nil
}
