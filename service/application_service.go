package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finmarket/domain"
)

const (
	SubmitMessage  = "Заявка отправлена! Мы свяжемся с вами в ближайшее время"
	SubmitRedirect = "/"
)

// ApplicationService owns the multi-step application form sessions.
// A draft lives until it is discarded, left untouched for the idle TTL,
// or its post-submit redirect delay elapses.
type ApplicationService struct {
	mu     sync.Mutex
	drafts map[string]*domain.ApplicationDraft

	submitter     SubmissionService
	scheduler     *Scheduler
	redirectDelay time.Duration
	idleTTL       time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

func NewApplicationService(
	submitter SubmissionService,
	redirectDelay time.Duration,
	idleTTL time.Duration,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	if idleTTL <= 0 {
		idleTTL = DefaultDraftIdleTTL
	}
	return &ApplicationService{
		drafts:        make(map[string]*domain.ApplicationDraft),
		submitter:     submitter,
		scheduler:     NewScheduler(),
		redirectDelay: redirectDelay,
		idleTTL:       idleTTL,
		now:           time.Now,
		logger:        logger,
	}
}

// Start opens a new draft on the product step.
func (s *ApplicationService) Start(_ context.Context) (domain.ApplicationDraft, error) {
	now := s.now().UTC()
	d := &domain.ApplicationDraft{
		ID:        uuid.NewString(),
		Step:      domain.StepProduct,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.drafts[d.ID] = d
	armed := s.touchLocked(d.ID)
	s.mu.Unlock()

	if !armed {
		return domain.ApplicationDraft{}, errors.New("application service is closed")
	}

	s.logger.Debug("application started", zap.String("draft_id", d.ID))
	return *d, nil
}

func (s *ApplicationService) Get(_ context.Context, id string) (domain.ApplicationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(id)
	if err != nil {
		return domain.ApplicationDraft{}, err
	}
	return *d, nil
}

// Update merges the non-nil patch fields into the draft.
func (s *ApplicationService) Update(_ context.Context, id string, patch domain.DraftPatch) (domain.ApplicationDraft, error) {
	if err := validatePatch(patch); err != nil {
		return domain.ApplicationDraft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.editable(id)
	if err != nil {
		return domain.ApplicationDraft{}, err
	}
	patch.Apply(d)
	d.UpdatedAt = s.now().UTC()
	s.touchLocked(id)
	return *d, nil
}

// Advance moves the draft to the next step once the current one is
// complete. The last step is left through Submit.
func (s *ApplicationService) Advance(_ context.Context, id string) (domain.ApplicationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.editable(id)
	if err != nil {
		return domain.ApplicationDraft{}, err
	}
	if d.Step >= domain.StepFinancial {
		return domain.ApplicationDraft{}, fmt.Errorf("step %d is the last one, submit instead: %w", d.Step, domain.ErrInvalidTransition)
	}
	if err := checkStep(d, d.Step); err != nil {
		return domain.ApplicationDraft{}, err
	}
	d.Step++
	d.UpdatedAt = s.now().UTC()
	s.touchLocked(id)
	return *d, nil
}

// Retreat moves the draft back one step. Entered values are kept.
func (s *ApplicationService) Retreat(_ context.Context, id string) (domain.ApplicationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.editable(id)
	if err != nil {
		return domain.ApplicationDraft{}, err
	}
	if d.Step <= domain.StepProduct {
		return domain.ApplicationDraft{}, fmt.Errorf("step %d has no previous step: %w", d.Step, domain.ErrInvalidTransition)
	}
	d.Step--
	d.UpdatedAt = s.now().UTC()
	s.touchLocked(id)
	return *d, nil
}

// Submit hands a complete draft to the submission service and schedules
// its teardown after the redirect delay.
func (s *ApplicationService) Submit(ctx context.Context, id string) (domain.SubmitResult, error) {
	s.mu.Lock()
	d, err := s.editable(id)
	if err != nil {
		s.mu.Unlock()
		return domain.SubmitResult{}, err
	}
	if d.Step != domain.StepFinancial {
		s.mu.Unlock()
		return domain.SubmitResult{}, fmt.Errorf("submit from step %d: %w", d.Step, domain.ErrInvalidTransition)
	}
	if err := checkStep(d, domain.StepFinancial); err != nil {
		s.mu.Unlock()
		return domain.SubmitResult{}, err
	}
	// claim the draft so concurrent edits and submits are rejected
	d.Submitted = true
	snapshot := *d
	s.scheduler.Cancel(id)
	s.mu.Unlock()

	receipt, err := s.submitter.Submit(ctx, snapshot)
	if err != nil {
		s.mu.Lock()
		if cur, ok := s.drafts[id]; ok {
			cur.Submitted = false
			s.touchLocked(id)
		}
		s.mu.Unlock()
		return domain.SubmitResult{}, fmt.Errorf("submit application: %w", err)
	}

	s.mu.Lock()
	if cur, ok := s.drafts[id]; ok {
		cur.UpdatedAt = s.now().UTC()
	}
	s.mu.Unlock()

	scheduled := s.scheduler.Schedule(id, s.redirectDelay, func() {
		s.remove(id)
		s.logger.Debug("application closed after redirect", zap.String("draft_id", id))
	})
	if !scheduled {
		s.remove(id)
	}

	return domain.SubmitResult{
		Receipt:         receipt,
		Message:         SubmitMessage,
		RedirectTo:      SubmitRedirect,
		RedirectAfterMs: s.redirectDelay.Milliseconds(),
	}, nil
}

// Discard tears the form down, cancelling its pending expiry or redirect.
func (s *ApplicationService) Discard(_ context.Context, id string) error {
	s.scheduler.Cancel(id)
	if !s.remove(id) {
		return fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Close cancels all pending expiries and redirects. Drafts whose expiry
// can no longer be scheduled are dropped on their next change.
func (s *ApplicationService) Close() {
	s.scheduler.Stop()
}

// Len reports the number of open drafts.
func (s *ApplicationService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// touchLocked re-arms the idle expiry of a draft. The caller holds s.mu.
// Once the scheduler is stopped the draft is dropped and it reports false.
func (s *ApplicationService) touchLocked(id string) bool {
	scheduled := s.scheduler.Schedule(id, s.idleTTL, func() {
		if s.remove(id) {
			s.logger.Debug("application expired", zap.String("draft_id", id))
		}
	})
	if !scheduled {
		delete(s.drafts, id)
	}
	return scheduled
}

func (s *ApplicationService) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return false
	}
	delete(s.drafts, id)
	return true
}

func (s *ApplicationService) lookup(id string) (*domain.ApplicationDraft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (s *ApplicationService) editable(id string) (*domain.ApplicationDraft, error) {
	d, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if d.Submitted {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrAlreadySubmitted)
	}
	return d, nil
}

func validatePatch(p domain.DraftPatch) error {
	if p.ProductType != nil && *p.ProductType != "" && !p.ProductType.Valid() {
		return fmt.Errorf("unknown product type %q: %w", *p.ProductType, domain.ErrInvalidInput)
	}
	if p.Employment != nil && *p.Employment != "" && !p.Employment.Valid() {
		return fmt.Errorf("unknown employment %q: %w", *p.Employment, domain.ErrInvalidInput)
	}
	if p.Amount != nil && *p.Amount < 0 {
		return fmt.Errorf("amount must be non-negative: %w", domain.ErrInvalidInput)
	}
	if p.Income != nil && *p.Income < 0 {
		return fmt.Errorf("income must be non-negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

// checkStep reports the fields still missing on step.
func checkStep(d *domain.ApplicationDraft, step domain.Step) error {
	var missing []string
	switch step {
	case domain.StepProduct:
		if !d.ProductType.Valid() {
			missing = append(missing, "product_type")
		}
	case domain.StepPersonal:
		if strings.TrimSpace(d.FullName) == "" {
			missing = append(missing, "full_name")
		}
		if strings.TrimSpace(d.Phone) == "" {
			missing = append(missing, "phone")
		}
		if email := strings.TrimSpace(d.Email); email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				missing = append(missing, "email")
			}
		}
	case domain.StepFinancial:
		if !(d.Amount > 0) {
			missing = append(missing, "amount")
		}
		if !(d.Income > 0) {
			missing = append(missing, "income")
		}
		if !d.Employment.Valid() {
			missing = append(missing, "employment")
		}
		if !d.AgreeTerms {
			missing = append(missing, "agree_terms")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("step %d missing %s: %w", step, strings.Join(missing, ", "), domain.ErrStepIncomplete)
	}
	return nil
}
