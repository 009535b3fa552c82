package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmarket/domain"
)

func newTermService() *TermRecommendationService {
	return NewTermRecommendationService(NewLoanService(nil, 0, nil), nil)
}

func TestRecommendTerm_Preferences(t *testing.T) {
	svc := newTermService()

	tests := []struct {
		preference domain.TermPreference
		budget     float64
		want       int
	}{
		{domain.PreferMinInterest, 0, 6},
		{domain.PreferMinPayment, 0, 84},
		{domain.PreferBalanced, 0, 18},
		{"", 0, 18},
		{domain.PreferMinInterest, 10_000, 42},
		{domain.PreferMinPayment, 10_000, 84},
		{domain.PreferBalanced, 10_000, 48},
	}

	for _, tt := range tests {
		t.Run(string(tt.preference), func(t *testing.T) {
			result, err := svc.RecommendTerm(context.Background(), domain.TermRecommendationInput{
				Amount:            300_000,
				InterestRate:      12.5,
				MaxMonthlyPayment: tt.budget,
				Preference:        tt.preference,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.RecommendedTerm)
			assert.Equal(t, tt.want, result.Options[0].TermMonths)
			assert.NotEmpty(t, result.Options[0].Reason)
			assert.True(t, sort.SliceIsSorted(result.Options, func(i, j int) bool {
				return result.Options[i].Score > result.Options[j].Score
			}))
		})
	}
}

func TestRecommendTerm_SliderTerms(t *testing.T) {
	result, err := newTermService().RecommendTerm(context.Background(), domain.TermRecommendationInput{
		Amount:       300_000,
		InterestRate: 12.5,
	})
	require.NoError(t, err)
	require.Len(t, result.Options, 14)

	byTerm := map[int]domain.TermOption{}
	for _, o := range result.Options {
		byTerm[o.TermMonths] = o
	}
	assert.Equal(t, 14192.0, byTerm[24].MonthlyPayment)
	assert.Equal(t, 40608.0, byTerm[24].Overpayment)
	assert.Equal(t, 5376.0, byTerm[84].MonthlyPayment)
}

func TestRecommendTerm_Budget(t *testing.T) {
	svc := newTermService()

	result, err := svc.RecommendTerm(context.Background(), domain.TermRecommendationInput{
		Amount:            300_000,
		InterestRate:      12.5,
		MaxMonthlyPayment: 10_000,
	})
	require.NoError(t, err)
	assert.Len(t, result.Options, 8)
	for _, o := range result.Options {
		assert.LessOrEqual(t, o.MonthlyPayment, 10_000.0)
	}

	_, err = svc.RecommendTerm(context.Background(), domain.TermRecommendationInput{
		Amount:            300_000,
		InterestRate:      12.5,
		MaxMonthlyPayment: 1_000,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecommendTerm_InvalidInput(t *testing.T) {
	svc := newTermService()

	for _, in := range []domain.TermRecommendationInput{
		{Amount: 0, InterestRate: 10},
		{Amount: 1000, InterestRate: 10, MinTermMonths: 24, MaxTermMonths: 12},
		{Amount: 1000, InterestRate: 10, MaxTermMonths: MaxTermMonths + 6},
		{Amount: 1000, InterestRate: 10, MinTermMonths: -6},
		{Amount: 1000, InterestRate: 10, MaxMonthlyPayment: -1},
		{Amount: 1000, InterestRate: 10, Preference: "cheapest"},
		{Amount: 1000, InterestRate: 10, MinTermMonths: 1, MaxTermMonths: 600, StepMonths: 1},
	} {
		_, err := svc.RecommendTerm(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}
