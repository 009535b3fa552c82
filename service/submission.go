package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/repository"
)

// SubmissionService accepts finalized application drafts.
type SubmissionService interface {
	Submit(ctx context.Context, draft domain.ApplicationDraft) (domain.SubmissionReceipt, error)
}

// StubSubmissionService accepts every application and records it.
type StubSubmissionService struct {
	repo   repository.ApplicationRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewStubSubmissionService(repo repository.ApplicationRepository, logger *zap.Logger) *StubSubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubSubmissionService{repo: repo, now: time.Now, logger: logger}
}

func (s *StubSubmissionService) Submit(
	ctx context.Context,
	draft domain.ApplicationDraft,
) (domain.SubmissionReceipt, error) {
	receipt := domain.SubmissionReceipt{
		ID:          uuid.NewString(),
		DraftID:     draft.ID,
		Accepted:    true,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, draft, receipt); err != nil {
		return domain.SubmissionReceipt{}, fmt.Errorf("record application %s: %w", draft.ID, err)
	}

	s.logger.Info("application accepted",
		zap.String("receipt_id", receipt.ID),
		zap.String("draft_id", draft.ID),
		zap.String("product_type", string(draft.ProductType)),
	)
	return receipt, nil
}
