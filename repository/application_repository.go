package repository

import (
	"context"

	"finmarket/domain"
)

// ApplicationRepository records finalized applications.
type ApplicationRepository interface {
	Save(ctx context.Context, draft domain.ApplicationDraft, receipt domain.SubmissionReceipt) error
	Count(ctx context.Context) (int64, error)
}
