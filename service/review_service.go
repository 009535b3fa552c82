package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/repository"
)

// SortAndFilter selects the reviews matching q and orders them. Sorting is
// stable, so equal keys keep their input order. The input is not modified.
func SortAndFilter(reviews []domain.Review, q domain.ReviewQuery) ([]domain.Review, error) {
	out := lo.Filter(reviews, func(r domain.Review, _ int) bool {
		return (q.ProductID == 0 || r.ProductID == q.ProductID) &&
			(q.Rating == 0 || r.Rating == q.Rating)
	})

	switch q.Sort {
	case "", domain.SortRecent:
	case domain.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case domain.SortHelpful:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Helpful > out[j].Helpful })
	default:
		return nil, fmt.Errorf("unknown sort %q: %w", q.Sort, domain.ErrInvalidInput)
	}
	return out, nil
}

// ParseReviewQuery reads the review browser selectors. Empty values and
// "all" select everything.
func ParseReviewQuery(product, rating, sortBy string) (domain.ReviewQuery, error) {
	var q domain.ReviewQuery

	if v := strings.TrimSpace(product); v != "" && v != "all" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return q, fmt.Errorf("invalid product %q: %w", product, domain.ErrInvalidInput)
		}
		q.ProductID = id
	}
	if v := strings.TrimSpace(rating); v != "" && v != "all" {
		stars, err := strconv.Atoi(v)
		if err != nil || stars < 1 || stars > 5 {
			return q, fmt.Errorf("invalid rating %q: %w", rating, domain.ErrInvalidInput)
		}
		q.Rating = stars
	}

	q.Sort = domain.ReviewSort(strings.TrimSpace(sortBy))
	switch q.Sort {
	case "":
		q.Sort = domain.SortRecent
	case domain.SortRecent, domain.SortRating, domain.SortHelpful:
	default:
		return q, fmt.Errorf("unknown sort %q: %w", sortBy, domain.ErrInvalidInput)
	}
	return q, nil
}

// Summaries aggregates ratings per product, in order of first appearance.
func Summaries(reviews []domain.Review) []domain.RatingSummary {
	groups := lo.GroupBy(reviews, func(r domain.Review) int { return r.ProductID })
	ids := lo.Uniq(lo.Map(reviews, func(r domain.Review, _ int) int { return r.ProductID }))

	out := make([]domain.RatingSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, summarize(id, groups[id]))
	}
	return out
}

func summarize(productID int, reviews []domain.Review) domain.RatingSummary {
	s := domain.RatingSummary{ProductID: productID, Total: len(reviews)}
	if s.Total == 0 {
		return s
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			s.Distribution[r.Rating]++
		}
	}
	total := decimal.NewFromInt(int64(s.Total))
	s.Average = decimal.NewFromInt(int64(sum)).Div(total).Round(1).InexactFloat64()
	for stars := 1; stars <= 5; stars++ {
		s.Percent[stars] = decimal.NewFromInt(int64(s.Distribution[stars] * 100)).
			Div(total).Round(1).InexactFloat64()
	}
	return s
}

type ReviewService struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

func NewReviewService(catalog repository.CatalogRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{catalog: catalog, logger: logger}
}

func (s *ReviewService) List(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	reviews, err := s.catalog.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return SortAndFilter(reviews, q)
}

// ForProduct returns the reviews of one product, newest first. A product
// without reviews yields an empty list.
func (s *ReviewService) ForProduct(ctx context.Context, productID int) ([]domain.Review, error) {
	return s.List(ctx, domain.ReviewQuery{ProductID: productID, Sort: domain.SortRecent})
}

// Summaries returns the live rating summary of every reviewed product,
// labelled with the product title and bank when the product is known.
func (s *ReviewService) Summaries(ctx context.Context) ([]domain.RatingSummary, error) {
	reviews, err := s.catalog.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	byID := lo.KeyBy(products, func(p domain.Product) int { return p.ID })

	summaries := Summaries(reviews)
	for i := range summaries {
		if p, ok := byID[summaries[i].ProductID]; ok {
			summaries[i].ProductTitle = p.Title
			summaries[i].Bank = p.Bank
		}
	}
	return summaries, nil
}
