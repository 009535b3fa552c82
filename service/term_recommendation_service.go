package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"finmarket/domain"
)

type TermRecommendationService struct {
	loanService *LoanService
	logger      *zap.Logger
}

func NewTermRecommendationService(loanService *LoanService, logger *zap.Logger) *TermRecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermRecommendationService{loanService: loanService, logger: logger}
}

// weights of the overpayment, payment and term scores
var preferenceWeights = map[domain.TermPreference][3]float64{
	domain.PreferMinInterest: {0.8, 0, 0.2},
	domain.PreferMinPayment:  {0, 1, 0},
	domain.PreferBalanced:    {0.4, 0.4, 0.2},
}

var preferenceReasons = map[domain.TermPreference]string{
	domain.PreferMinInterest: "Срок с наименьшей переплатой",
	domain.PreferMinPayment:  "Срок с наименьшим ежемесячным платежом",
	domain.PreferBalanced:    "Баланс между платежом и переплатой",
}

func withTermDefaults(in domain.TermRecommendationInput) domain.TermRecommendationInput {
	if in.MinTermMonths == 0 {
		in.MinTermMonths = SliderMinTerm
	}
	if in.MaxTermMonths == 0 {
		in.MaxTermMonths = SliderMaxTerm
	}
	if in.StepMonths == 0 {
		in.StepMonths = SliderTermStep
	}
	if in.Preference == "" {
		in.Preference = domain.PreferBalanced
	}
	return in
}

// RecommendTerm evaluates the calculator terms in [MinTermMonths,
// MaxTermMonths] and ranks those within the monthly budget.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	input = withTermDefaults(input)

	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths || input.StepMonths < 1 {
		return domain.TermRecommendationResult{}, fmt.Errorf("terms must be positive: %w", domain.ErrInvalidInput)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("min term exceeds max term: %w", domain.ErrInvalidInput)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("max term exceeds %d months: %w", MaxTermMonths, domain.ErrInvalidInput)
	}
	if (input.MaxTermMonths-input.MinTermMonths)/input.StepMonths+1 > MaxTermOptions {
		return domain.TermRecommendationResult{}, fmt.Errorf("more than %d terms requested: %w", MaxTermOptions, domain.ErrInvalidInput)
	}
	if input.MaxMonthlyPayment < 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("monthly budget must be non-negative: %w", domain.ErrInvalidInput)
	}
	weights, ok := preferenceWeights[input.Preference]
	if !ok {
		return domain.TermRecommendationResult{}, fmt.Errorf("unknown preference %q: %w", input.Preference, domain.ErrInvalidInput)
	}

	options := []domain.TermOption{}
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term += input.StepMonths {
		result, err := s.loanService.CalculateLoan(ctx, domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   term,
		})
		if err != nil {
			return domain.TermRecommendationResult{}, err
		}
		if input.MaxMonthlyPayment > 0 && result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}
		options = append(options, domain.TermOption{
			TermMonths:     term,
			MonthlyPayment: result.MonthlyPayment,
			Overpayment:    result.Overpayment,
		})
	}
	if len(options) == 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("no term fits a monthly payment of %.0f: %w", input.MaxMonthlyPayment, domain.ErrNotFound)
	}

	scoreOptions(options, weights)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})
	options[0].Reason = preferenceReasons[input.Preference]

	s.logger.Debug("term recommended",
		zap.Int("term_months", options[0].TermMonths),
		zap.Int("options", len(options)),
		zap.String("preference", string(input.Preference)),
	)

	return domain.TermRecommendationResult{
		RecommendedTerm: options[0].TermMonths,
		Options:         options,
	}, nil
}

// scoreOptions rates each option 0..10 on overpayment, payment and term,
// normalized over the candidate set, and blends them with weights.
func scoreOptions(options []domain.TermOption, weights [3]float64) {
	minOver, maxOver := math.Inf(1), math.Inf(-1)
	minPay, maxPay := math.Inf(1), math.Inf(-1)
	minTerm, maxTerm := options[0].TermMonths, options[0].TermMonths
	for _, o := range options {
		minOver, maxOver = math.Min(minOver, o.Overpayment), math.Max(maxOver, o.Overpayment)
		minPay, maxPay = math.Min(minPay, o.MonthlyPayment), math.Max(maxPay, o.MonthlyPayment)
		minTerm, maxTerm = min(minTerm, o.TermMonths), max(maxTerm, o.TermMonths)
	}

	for i := range options {
		o := &options[i]
		interestScore := normalizedScore(o.Overpayment, minOver, maxOver)
		paymentScore := normalizedScore(o.MonthlyPayment, minPay, maxPay)
		termScore := normalizedScore(float64(o.TermMonths), float64(minTerm), float64(maxTerm))
		score := weights[0]*interestScore + weights[1]*paymentScore + weights[2]*termScore
		o.Score = math.Round(score*100) / 100
	}
}

// normalizedScore maps lo..hi to 10..0; a degenerate range scores 10.
func normalizedScore(v, lo, hi float64) float64 {
	if hi <= lo {
		return 10
	}
	return 10 * (hi - v) / (hi - lo)
}
