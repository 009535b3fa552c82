package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/format"
	"finmarket/repository"
)

type LoanService struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewLoanService creates a LoanService that memoizes results in cache.
func NewLoanService(
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LoanService{cache: cache, ttl: ttl, logger: logger}
}

func validateLoan(input domain.LoanInput) error {
	if !(input.Amount > 0) {
		return fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	if input.Amount > MaxLoanAmount {
		return fmt.Errorf("amount exceeds %s: %w", format.Currency(MaxLoanAmount), domain.ErrInvalidInput)
	}
	if !(input.InterestRate >= 0) {
		return fmt.Errorf("interest rate must be non-negative: %w", domain.ErrInvalidInput)
	}
	if input.InterestRate > MaxInterestRate {
		return fmt.Errorf("interest rate exceeds %s: %w", format.Rate(MaxInterestRate), domain.ErrInvalidInput)
	}
	if input.TermMonths < MinTermMonths {
		return fmt.Errorf("term must be at least %d month: %w", MinTermMonths, domain.ErrInvalidInput)
	}
	if input.TermMonths > MaxTermMonths {
		return fmt.Errorf("term exceeds %d months: %w", MaxTermMonths, domain.ErrInvalidInput)
	}
	return nil
}

// CalculateLoan returns the payment calculator figures. The monthly payment
// is rounded to whole currency units and the totals derive from it.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.LoanResult{}, err
	}

	key := fmt.Sprintf("loan:%g:%g:%d", input.Amount, input.InterestRate, input.TermMonths)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	a, err := Amortize(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		return domain.LoanResult{}, err
	}

	monthly := math.Round(a.MonthlyPayment)
	total := monthly * float64(input.TermMonths)
	overpayment := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment:        monthly,
		TotalPayment:          total,
		Overpayment:           overpayment,
		MonthlyPaymentDisplay: format.Currency(monthly),
		TotalPaymentDisplay:   format.Currency(total),
		OverpaymentDisplay:    format.Currency(overpayment),
		TermYears:             format.Years(input.TermMonths),
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// CalculateGrace returns the interest a credit card holder avoids by
// repaying inside the grace period.
func (s *LoanService) CalculateGrace(input domain.GraceInput) (domain.GraceResult, error) {
	if input.Amount > MaxLoanAmount {
		return domain.GraceResult{}, fmt.Errorf("amount exceeds %s: %w", format.Currency(MaxLoanAmount), domain.ErrInvalidInput)
	}
	if input.InterestRate > MaxInterestRate {
		return domain.GraceResult{}, fmt.Errorf("interest rate exceeds %s: %w", format.Rate(MaxInterestRate), domain.ErrInvalidInput)
	}
	if input.GraceDays > MaxGraceDays {
		return domain.GraceResult{}, fmt.Errorf("grace period exceeds %d days: %w", MaxGraceDays, domain.ErrInvalidInput)
	}
	days := input.GraceDays
	if days == 0 {
		days = DefaultGraceDays
	}

	cost, err := GracePeriodCost(input.Amount, input.InterestRate, days)
	if err != nil {
		return domain.GraceResult{}, err
	}
	cost = math.Round(cost)

	return domain.GraceResult{
		WithGrace:           0,
		WithoutGrace:        cost,
		Savings:             cost,
		GraceDays:           days,
		WithoutGraceDisplay: format.Currency(cost),
		SavingsDisplay:      format.Currency(cost),
	}, nil
}

func (s *LoanService) fromCache(ctx context.Context, key string) (domain.LoanResult, bool) {
	if s.cache == nil {
		return domain.LoanResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.LoanResult{}, false
	}
	var result domain.LoanResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("discarding unreadable cached calculation", zap.String("key", key), zap.Error(err))
		return domain.LoanResult{}, false
	}
	return result, true
}

// toCache is best effort; a failed write only costs a recomputation.
func (s *LoanService) toCache(ctx context.Context, key string, result domain.LoanResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode calculation", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.logger.Warn("failed to cache calculation", zap.String("key", key), zap.Error(err))
	}
}
