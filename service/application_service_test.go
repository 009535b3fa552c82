package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmarket/domain"
	"finmarket/repository"
)

type failingSubmitter struct{}

func (failingSubmitter) Submit(context.Context, domain.ApplicationDraft) (domain.SubmissionReceipt, error) {
	return domain.SubmissionReceipt{}, errors.New("backend unavailable")
}

func newApplicationService(t *testing.T, delay time.Duration) (*ApplicationService, *repository.ApplicationRepositoryMemory) {
	t.Helper()
	repo := repository.NewApplicationRepositoryMemory()
	svc := NewApplicationService(NewStubSubmissionService(repo, nil), delay, time.Hour, nil)
	t.Cleanup(svc.Close)
	return svc, repo
}

func ptr[T any](v T) *T { return &v }

// fillToFinancial walks a new draft through the first two steps.
func fillToFinancial(t *testing.T, svc *ApplicationService) domain.ApplicationDraft {
	t.Helper()
	ctx := context.Background()

	d, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{ProductType: ptr(domain.ApplyLoan)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, d.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{
		FullName: ptr("Иван Петров"),
		Phone:    ptr("+7 900 000-00-00"),
		Email:    ptr("ivan@example.com"),
	})
	require.NoError(t, err)
	d, err = svc.Advance(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepFinancial, d.Step)
	return d
}

func completeFinancial(t *testing.T, svc *ApplicationService, id string) {
	t.Helper()
	_, err := svc.Update(context.Background(), id, domain.DraftPatch{
		Amount:     ptr(500_000.0),
		Income:     ptr(120_000.0),
		Employment: ptr(domain.EmploymentFullTime),
		AgreeTerms: ptr(true),
	})
	require.NoError(t, err)
}

func TestApplication_Start(t *testing.T) {
	svc, _ := newApplicationService(t, 0)

	d, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, domain.StepProduct, d.Step)
	assert.False(t, d.Submitted)

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestApplication_UpdateMergesFields(t *testing.T) {
	svc, _ := newApplicationService(t, 0)
	ctx := context.Background()
	d, _ := svc.Start(ctx)

	_, err := svc.Update(ctx, d.ID, domain.DraftPatch{FullName: ptr("Анна"), Phone: ptr("123")})
	require.NoError(t, err)
	got, err := svc.Update(ctx, d.ID, domain.DraftPatch{Email: ptr("anna@example.com")})
	require.NoError(t, err)

	assert.Equal(t, "Анна", got.FullName)
	assert.Equal(t, "123", got.Phone)
	assert.Equal(t, "anna@example.com", got.Email)

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{ProductType: ptr(domain.ApplicationProduct("insurance"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{Amount: ptr(-1.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplication_AdvanceRequiresCompleteStep(t *testing.T) {
	svc, _ := newApplicationService(t, 0)
	ctx := context.Background()
	d, _ := svc.Start(ctx)

	_, err := svc.Advance(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)
	assert.ErrorContains(t, err, "product_type")

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{ProductType: ptr(domain.ApplyMortgage)})
	require.NoError(t, err)
	d, err = svc.Advance(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPersonal, d.Step)

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{FullName: ptr("Анна"), Email: ptr("not-an-email")})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)
	assert.ErrorContains(t, err, "phone")
	assert.ErrorContains(t, err, "email")

	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{Phone: ptr("+7 900"), Email: ptr("")})
	require.NoError(t, err)
	d, err = svc.Advance(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepFinancial, d.Step)

	_, err = svc.Advance(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApplication_Retreat(t *testing.T) {
	svc, _ := newApplicationService(t, 0)
	ctx := context.Background()

	d, _ := svc.Start(ctx)
	_, err := svc.Retreat(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	d = fillToFinancial(t, svc)
	back, err := svc.Retreat(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPersonal, back.Step)
	assert.Equal(t, "Иван Петров", back.FullName)
}

func TestApplication_Submit(t *testing.T) {
	svc, repo := newApplicationService(t, 20*time.Millisecond)
	ctx := context.Background()
	d := fillToFinancial(t, svc)

	_, err := svc.Submit(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)

	completeFinancial(t, svc, d.ID)
	result, err := svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, result.Receipt.Accepted)
	assert.Equal(t, d.ID, result.Receipt.DraftID)
	assert.Equal(t, "/", result.RedirectTo)
	assert.Equal(t, int64(20), result.RedirectAfterMs)
	assert.NotEmpty(t, result.Message)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.Submit(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{FullName: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

	assert.Eventually(t, func() bool {
		_, err := svc.Get(ctx, d.ID)
		return errors.Is(err, domain.ErrNotFound)
	}, time.Second, 5*time.Millisecond)
}

func TestApplication_SubmitFromEarlierStep(t *testing.T) {
	svc, _ := newApplicationService(t, 0)
	d, _ := svc.Start(context.Background())

	_, err := svc.Submit(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApplication_SubmitFailureKeepsDraft(t *testing.T) {
	repo := repository.NewApplicationRepositoryMemory()
	svc := NewApplicationService(NewStubSubmissionService(repo, nil), time.Hour, time.Hour, nil)
	defer svc.Close()
	d := fillToFinancial(t, svc)
	completeFinancial(t, svc, d.ID)

	svc.submitter = failingSubmitter{}
	_, err := svc.Submit(context.Background(), d.ID)
	require.Error(t, err)

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.False(t, got.Submitted)
	// idle expiry re-armed
	assert.Equal(t, 1, svc.scheduler.Pending())
}

func TestApplication_DiscardCancelsRedirect(t *testing.T) {
	svc, _ := newApplicationService(t, time.Hour)
	ctx := context.Background()
	d := fillToFinancial(t, svc)
	completeFinancial(t, svc, d.ID)

	_, err := svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.scheduler.Pending())

	require.NoError(t, svc.Discard(ctx, d.ID))
	assert.Zero(t, svc.scheduler.Pending())

	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Discard(ctx, d.ID), domain.ErrNotFound)
}

func TestApplication_AbandonedDraftsExpire(t *testing.T) {
	repo := repository.NewApplicationRepositoryMemory()
	svc := NewApplicationService(NewStubSubmissionService(repo, nil), time.Hour, 20*time.Millisecond, nil)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, err := svc.Start(ctx)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return svc.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, svc.scheduler.Pending())
}

func TestApplication_ActivityRearmsExpiry(t *testing.T) {
	repo := repository.NewApplicationRepositoryMemory()
	svc := NewApplicationService(NewStubSubmissionService(repo, nil), time.Hour, 200*time.Millisecond, nil)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	d, err := svc.Start(ctx)
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	_, err = svc.Update(ctx, d.ID, domain.DraftPatch{ProductType: ptr(domain.ApplyCredit)})
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	_, err = svc.Get(ctx, d.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := svc.Get(ctx, d.ID)
		return errors.Is(err, domain.ErrNotFound)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApplication_AfterClose(t *testing.T) {
	svc, repo := newApplicationService(t, time.Hour)
	ctx := context.Background()
	d := fillToFinancial(t, svc)
	completeFinancial(t, svc, d.ID)

	svc.Close()

	result, err := svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, result.Receipt.Accepted)
	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, svc.Len())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.Start(ctx)
	assert.Error(t, err)
	assert.Zero(t, svc.Len())
}

func TestApplication_UnknownDraft(t *testing.T) {
	svc, _ := newApplicationService(t, 0)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Update(ctx, "missing", domain.DraftPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Advance(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Retreat(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Submit(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStubSubmissionService(t *testing.T) {
	repo := repository.NewApplicationRepositoryMemory()
	svc := NewStubSubmissionService(repo, nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	receipt, err := svc.Submit(context.Background(), domain.ApplicationDraft{ID: "d1", ProductType: domain.ApplyDebit})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, "d1", receipt.DraftID)
	assert.True(t, receipt.Accepted)
	assert.Equal(t, fixed, receipt.SubmittedAt)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
