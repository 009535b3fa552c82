package domain

type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

// LoanResult holds the rounded figures shown by the payment calculator.
type LoanResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	Overpayment    float64 `json:"overpayment"`

	MonthlyPaymentDisplay string `json:"monthly_payment_display"`
	TotalPaymentDisplay   string `json:"total_payment_display"`
	OverpaymentDisplay    string `json:"overpayment_display"`
	TermYears             string `json:"term_years"`
}

type GraceInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	GraceDays    int     `json:"grace_days"`
}

// GraceResult compares paying inside and outside the grace period.
type GraceResult struct {
	WithGrace           float64 `json:"with_grace"`
	WithoutGrace        float64 `json:"without_grace"`
	Savings             float64 `json:"savings"`
	GraceDays           int     `json:"grace_days"`
	WithoutGraceDisplay string  `json:"without_grace_display"`
	SavingsDisplay      string  `json:"savings_display"`
}

// CalculationRequest is the product page calculator state.
type CalculationRequest struct {
	Amount     float64 `json:"amount"`
	TermMonths int     `json:"term_months"`
}

// ProductCalculation is returned by the product page calculator. Exactly one
// of Loan or Grace is set, depending on the product category.
type ProductCalculation struct {
	ProductID int          `json:"product_id"`
	Category  Category     `json:"type"`
	Amount    float64      `json:"amount"`
	Loan      *LoanResult  `json:"loan,omitempty"`
	Grace     *GraceResult `json:"grace,omitempty"`
}
