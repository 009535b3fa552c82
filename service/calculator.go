package service

import (
	"fmt"
	"math"

	"finmarket/domain"
)

// Amortization is the unrounded result of the annuity formula.
type Amortization struct {
	MonthlyPayment float64
	TotalPayment   float64
	Overpayment    float64
}

// Amortize computes the fixed monthly payment that repays principal over
// termMonths at annualRatePercent. A zero rate splits the principal evenly.
func Amortize(principal, annualRatePercent float64, termMonths int) (Amortization, error) {
	if !(principal > 0) || math.IsInf(principal, 0) {
		return Amortization{}, fmt.Errorf("principal must be positive: %w", domain.ErrInvalidInput)
	}
	if !(annualRatePercent >= 0) || math.IsInf(annualRatePercent, 0) {
		return Amortization{}, fmt.Errorf("rate must be non-negative: %w", domain.ErrInvalidInput)
	}
	if termMonths <= 0 {
		return Amortization{}, fmt.Errorf("term must be positive: %w", domain.ErrInvalidInput)
	}

	n := float64(termMonths)
	var payment float64
	if annualRatePercent == 0 {
		payment = principal / n
	} else {
		r := annualRatePercent / 100 / 12
		payment = principal * r / (1 - math.Pow(1+r, -n))
	}

	total := payment * n
	return Amortization{
		MonthlyPayment: payment,
		TotalPayment:   total,
		Overpayment:    total - principal,
	}, nil
}

// GracePeriodCost is the simple interest that would accrue on amount over
// graceDays if the grace period were not honored.
func GracePeriodCost(amount, annualRatePercent float64, graceDays int) (float64, error) {
	if !(amount >= 0) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount must be non-negative: %w", domain.ErrInvalidInput)
	}
	if !(annualRatePercent >= 0) || math.IsInf(annualRatePercent, 0) {
		return 0, fmt.Errorf("rate must be non-negative: %w", domain.ErrInvalidInput)
	}
	if graceDays < 0 {
		return 0, fmt.Errorf("grace days must be non-negative: %w", domain.ErrInvalidInput)
	}
	return amount * (annualRatePercent / 100) * (float64(graceDays) / 365), nil
}
