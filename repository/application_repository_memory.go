package repository

import (
	"context"
	"sync"

	"finmarket/domain"
)

// ApplicationRepositoryMemory is an in-memory implementation of ApplicationRepository.
type ApplicationRepositoryMemory struct {
	mu   sync.Mutex
	data []domain.SubmissionReceipt
}

// NewApplicationRepositoryMemory creates a new in-memory application repository.
func NewApplicationRepositoryMemory() *ApplicationRepositoryMemory {
	return &ApplicationRepositoryMemory{
		data: []domain.SubmissionReceipt{},
	}
}

// Save keeps the receipt only; personal data of the draft is not retained.
func (r *ApplicationRepositoryMemory) Save(
	_ context.Context,
	_ domain.ApplicationDraft,
	receipt domain.SubmissionReceipt,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, receipt)
	return nil
}

func (r *ApplicationRepositoryMemory) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.data)), nil
}
