package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/format"
	"finmarket/repository"
)

type CatalogService struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

func NewCatalogService(catalog repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, logger: logger}
}

// List returns the catalog products passing f.
func (s *CatalogService) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return FilterProducts(products, f), nil
}

// Get returns the product page for id, including up to two other
// products of the same category in catalog order.
func (s *CatalogService) Get(ctx context.Context, id int) (domain.ProductDetail, error) {
	product, err := s.catalog.Product(ctx, id)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("list products: %w", err)
	}

	similar := lo.Filter(products, func(p domain.Product, _ int) bool {
		return p.Category == product.Category && p.ID != product.ID
	})
	if len(similar) > SimilarProductsLimit {
		similar = similar[:SimilarProductsLimit]
	}

	return domain.ProductDetail{
		Product:     product,
		RateDisplay: format.Rate(product.Rate),
		RateLabel:   domain.RateLabel(product.Category),
		Similar:     similar,
	}, nil
}

// Compare returns the requested products in request order. Unknown and
// repeated ids are skipped.
func (s *CatalogService) Compare(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no products to compare: %w", domain.ErrInvalidInput)
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	byID := lo.KeyBy(products, func(p domain.Product) int { return p.ID })

	out := make([]domain.Product, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	if len(out) < len(ids) {
		s.logger.Debug("compare skipped ids", zap.Ints("requested", ids), zap.Int("found", len(out)))
	}
	return out, nil
}

type suggestSource []domain.Product

func (s suggestSource) String(i int) string { return strings.ToLower(s[i].Title + " " + s[i].Bank) }
func (s suggestSource) Len() int { return len(s) }

// Suggest returns up to limit products whose title or bank fuzzily
// matches query, best match first.
func (s *CatalogService) Suggest(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Product{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), suggestSource(products))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return lo.Map(matches, func(m fuzzy.Match, _ int) domain.Product {
		return products[m.Index]
	}), nil
}
