package service

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"finmarket/domain"
)

// ProductFilter holds the three catalog criteria. They are AND-ed.
// A nil MaxRate leaves the rate unbounded, so the zero value matches
// every product.
type ProductFilter struct {
	Category domain.Category
	Query    string
	MaxRate  *float64
}

// AllProducts is the inert filter.
func AllProducts() ProductFilter {
	return ProductFilter{Category: domain.CategoryAll}
}

func (f ProductFilter) matches(p domain.Product, query string) bool {
	if f.Category != "" && f.Category != domain.CategoryAll && p.Category != f.Category {
		return false
	}
	if query != "" &&
		!strings.Contains(strings.ToLower(p.Title), query) &&
		!strings.Contains(strings.ToLower(p.Bank), query) {
		return false
	}
	return f.MaxRate == nil || p.Rate <= *f.MaxRate
}

// FilterProducts returns the products passing f, in input order.
func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	query := strings.ToLower(f.Query)
	return lo.Filter(products, func(p domain.Product, _ int) bool {
		return f.matches(p, query)
	})
}

// ParseCategory accepts "all", an empty string or one of the catalog categories.
func ParseCategory(s string) (domain.Category, error) {
	c := domain.Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == domain.CategoryAll {
		return domain.CategoryAll, nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("unknown product type %q: %w", s, domain.ErrInvalidInput)
	}
	return c, nil
}
