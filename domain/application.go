package domain

import "time"

// Step is the current page of the application form.
type Step int

const (
	StepProduct   Step = 1
	StepPersonal  Step = 2
	StepFinancial Step = 3
)

// ApplicationProduct is the product type offered by the application form.
// The form offers mortgages, which the catalog files under loans.
type ApplicationProduct string

const (
	ApplyDebit     ApplicationProduct = "debit"
	ApplyCredit    ApplicationProduct = "credit"
	ApplyLoan      ApplicationProduct = "loan"
	ApplyMicroloan ApplicationProduct = "microloan"
	ApplyMortgage  ApplicationProduct = "mortgage"
)

func (p ApplicationProduct) Valid() bool {
	switch p {
	case ApplyDebit, ApplyCredit, ApplyLoan, ApplyMicroloan, ApplyMortgage:
		return true
	}
	return false
}

type Employment string

const (
	EmploymentFullTime     Employment = "fulltime"
	EmploymentPartTime     Employment = "parttime"
	EmploymentSelfEmployed Employment = "selfemployed"
	EmploymentBusiness     Employment = "business"
)

func (e Employment) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentSelfEmployed, EmploymentBusiness:
		return true
	}
	return false
}

// ApplicationDraft is the transient state of one application form session.
type ApplicationDraft struct {
	ID          string             `json:"id"`
	ProductType ApplicationProduct `json:"product_type"`
	FullName    string             `json:"full_name"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email"`
	Amount      float64            `json:"amount"`
	Income      float64            `json:"income"`
	Employment  Employment         `json:"employment"`
	AgreeTerms  bool               `json:"agree_terms"`
	Step        Step               `json:"step"`
	Submitted   bool               `json:"submitted"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// DraftPatch is a keyed partial update; nil fields are left untouched.
type DraftPatch struct {
	ProductType *ApplicationProduct `json:"product_type,omitempty"`
	FullName    *string             `json:"full_name,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Email       *string             `json:"email,omitempty"`
	Amount      *float64            `json:"amount,omitempty"`
	Income      *float64            `json:"income,omitempty"`
	Employment  *Employment         `json:"employment,omitempty"`
	AgreeTerms  *bool               `json:"agree_terms,omitempty"`
}

// Apply merges the patch into the draft.
func (p DraftPatch) Apply(d *ApplicationDraft) {
	if p.ProductType != nil {
		d.ProductType = *p.ProductType
	}
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Income != nil {
		d.Income = *p.Income
	}
	if p.Employment != nil {
		d.Employment = *p.Employment
	}
	if p.AgreeTerms != nil {
		d.AgreeTerms = *p.AgreeTerms
	}
}

// SubmissionReceipt is returned by the application submission service.
type SubmissionReceipt struct {
	ID          string    `json:"id"`
	DraftID     string    `json:"draft_id"`
	Accepted    bool      `json:"accepted"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitResult tells the client what happens after a successful submission.
type SubmitResult struct {
	Receipt         SubmissionReceipt `json:"receipt"`
	Message         string            `json:"message"`
	RedirectTo      string            `json:"redirect_to"`
	RedirectAfterMs int64             `json:"redirect_after_ms"`
}
