package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmarket/domain"
)

func reviewIDs(reviews []domain.Review) []int {
	return lo.Map(reviews, func(r domain.Review, _ int) int { return r.ID })
}

func TestSortAndFilter(t *testing.T) {
	reviews := testCatalog(t).Reviews

	tests := []struct {
		name  string
		query domain.ReviewQuery
		want  []int
	}{
		{"all recent", domain.ReviewQuery{Sort: domain.SortRecent}, []int{1, 2, 3, 4, 5, 6}},
		{"empty sort keeps order", domain.ReviewQuery{}, []int{1, 2, 3, 4, 5, 6}},
		{"product", domain.ReviewQuery{ProductID: 1}, []int{1, 4}},
		{"rating", domain.ReviewQuery{Rating: 5}, []int{1, 2, 5, 6}},
		{"helpful", domain.ReviewQuery{Sort: domain.SortHelpful}, []int{2, 5, 1, 6, 3, 4}},
		{"by rating", domain.ReviewQuery{Sort: domain.SortRating}, []int{1, 2, 5, 6, 3, 4}},
		{"product and rating", domain.ReviewQuery{ProductID: 3, Rating: 4}, []int{3}},
		{"no match", domain.ReviewQuery{ProductID: 8}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SortAndFilter(reviews, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reviewIDs(got))
		})
	}
}

func TestSortAndFilter_StableRatingSort(t *testing.T) {
	reviews := []domain.Review{
		{ID: 1, Rating: 5},
		{ID: 2, Rating: 4},
		{ID: 3, Rating: 5},
		{ID: 4, Rating: 4},
	}

	got, err := SortAndFilter(reviews, domain.ReviewQuery{Sort: domain.SortRating})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2, 4}, reviewIDs(got))
	assert.Equal(t, []int{1, 2, 3, 4}, reviewIDs(reviews))
}

func TestSortAndFilter_UnknownSort(t *testing.T) {
	_, err := SortAndFilter(nil, domain.ReviewQuery{Sort: "oldest"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseReviewQuery(t *testing.T) {
	q, err := ParseReviewQuery("all", "all", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewQuery{Sort: domain.SortRecent}, q)

	q, err = ParseReviewQuery("2", "5", "helpful")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewQuery{ProductID: 2, Rating: 5, Sort: domain.SortHelpful}, q)

	for _, in := range [][3]string{
		{"abc", "", ""},
		{"-1", "", ""},
		{"", "6", ""},
		{"", "0", ""},
		{"", "", "oldest"},
	} {
		_, err := ParseReviewQuery(in[0], in[1], in[2])
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%v", in)
	}
}

func TestSummaries(t *testing.T) {
	summaries := Summaries(testCatalog(t).Reviews)
	require.Len(t, summaries, 3)

	first := summaries[0]
	assert.Equal(t, 1, first.ProductID)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 4.5, first.Average)
	assert.Equal(t, [6]int{0, 0, 0, 0, 1, 1}, first.Distribution)
	assert.Equal(t, 50.0, first.Percent[5])
	assert.Equal(t, 50.0, first.Percent[4])

	assert.Equal(t, 2, summaries[1].ProductID)
	assert.Equal(t, 5.0, summaries[1].Average)
	assert.Equal(t, 100.0, summaries[1].Percent[5])
}

func TestSummaries_Rounding(t *testing.T) {
	summaries := Summaries([]domain.Review{
		{ID: 1, ProductID: 9, Rating: 5},
		{ID: 2, ProductID: 9, Rating: 4},
		{ID: 3, ProductID: 9, Rating: 4},
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, 4.3, summaries[0].Average)
	assert.Equal(t, 33.3, summaries[0].Percent[5])
	assert.Equal(t, 66.7, summaries[0].Percent[4])
	assert.Empty(t, Summaries(nil))
}

func TestReviewService(t *testing.T) {
	svc := NewReviewService(newCatalogRepo(t), nil)
	ctx := context.Background()

	reviews, err := svc.ForProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, reviewIDs(reviews))

	reviews, err = svc.ForProduct(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	listed, err := svc.List(ctx, domain.ReviewQuery{Rating: 4, Sort: domain.SortHelpful})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, reviewIDs(listed))

	summaries, err := svc.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Дебетовая карта Премиум", summaries[0].ProductTitle)
	assert.Equal(t, "Альфа-Банк", summaries[0].Bank)
}
