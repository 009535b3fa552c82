package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/repository"
)

// CalculatorService backs the calculator shown on a product page.
type CalculatorService struct {
	catalog     repository.CatalogRepository
	loanService *LoanService
	logger      *zap.Logger
}

func NewCalculatorService(
	catalog repository.CatalogRepository,
	loanService *LoanService,
	logger *zap.Logger,
) *CalculatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculatorService{catalog: catalog, loanService: loanService, logger: logger}
}

// ForProduct runs the calculator that matches the product category:
// an annuity schedule for loans and the grace-period saving for credit
// cards. Zero request fields take the page defaults.
func (s *CalculatorService) ForProduct(
	ctx context.Context,
	id int,
	req domain.CalculationRequest,
) (domain.ProductCalculation, error) {
	product, err := s.catalog.Product(ctx, id)
	if err != nil {
		return domain.ProductCalculation{}, err
	}

	amount := req.Amount
	if amount == 0 {
		amount = DefaultLoanAmount
	}
	calc := domain.ProductCalculation{
		ProductID: product.ID,
		Category:  product.Category,
		Amount:    amount,
	}

	switch product.Category {
	case domain.CategoryLoan:
		term := req.TermMonths
		if term == 0 {
			term = DefaultLoanTerm
		}
		loan, err := s.loanService.CalculateLoan(ctx, domain.LoanInput{
			Amount:       amount,
			InterestRate: product.Rate,
			TermMonths:   term,
		})
		if err != nil {
			return domain.ProductCalculation{}, err
		}
		calc.Loan = &loan
	case domain.CategoryCredit:
		if amount < 0 {
			return domain.ProductCalculation{}, fmt.Errorf("amount must be non-negative: %w", domain.ErrInvalidInput)
		}
		grace, err := s.loanService.CalculateGrace(domain.GraceInput{
			Amount:       amount,
			InterestRate: product.Rate,
			GraceDays:    product.GraceDays,
		})
		if err != nil {
			return domain.ProductCalculation{}, err
		}
		calc.Grace = &grace
	default:
		return domain.ProductCalculation{}, fmt.Errorf("product %d (%s): %w", id, product.Category, domain.ErrNoCalculator)
	}

	s.logger.Debug("product calculation",
		zap.Int("product_id", id),
		zap.String("type", string(product.Category)),
		zap.Float64("amount", amount),
	)
	return calc, nil
}
