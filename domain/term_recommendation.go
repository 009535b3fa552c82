package domain

type TermPreference string

const (
	PreferMinInterest TermPreference = "minimize_interest"
	PreferMinPayment  TermPreference = "minimize_payment"
	PreferBalanced    TermPreference = "balanced"
)

type TermRecommendationInput struct {
	Amount            float64        `json:"amount"`
	InterestRate      float64        `json:"interest_rate"`
	MinTermMonths     int            `json:"min_term_months"`
	MaxTermMonths     int            `json:"max_term_months"`
	StepMonths        int            `json:"step_months"`
	MaxMonthlyPayment float64        `json:"max_monthly_payment"`
	Preference        TermPreference `json:"preference"`
}

type TermOption struct {
	TermMonths     int     `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Overpayment    float64 `json:"overpayment"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int          `json:"recommended_term"`
	Options         []TermOption `json:"options"`
}
