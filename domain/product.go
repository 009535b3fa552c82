package domain

// Category classifies a financial product.
type Category string

const (
	CategoryDebit        Category = "debit"
	CategoryCredit       Category = "credit"
	CategoryLoan         Category = "loan"
	CategoryMicroloan    Category = "microloan"
	CategorySubscription Category = "subscription"

	// CategoryAll is the filter sentinel that matches every category.
	CategoryAll Category = "all"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{
	CategoryDebit,
	CategoryCredit,
	CategoryLoan,
	CategoryMicroloan,
	CategorySubscription,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryDebit, CategoryCredit, CategoryLoan, CategoryMicroloan, CategorySubscription:
		return true
	}
	return false
}

// RateLabel is the unit shown next to a product rate.
func RateLabel(c Category) string {
	switch c {
	case CategorySubscription:
		return "в месяц"
	case CategoryDebit:
		return "на остаток"
	default:
		return "годовых"
	}
}

// Product is immutable catalog reference data. Rate is a yield, an APR or
// a monthly subscription price depending on the category.
type Product struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    Category `json:"type" yaml:"type"`
	Rate        float64  `json:"rate" yaml:"rate"`
	Bank        string   `json:"bank" yaml:"bank"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	Badge       string   `json:"badge,omitempty" yaml:"badge"`

	FullDescription string   `json:"full_description,omitempty" yaml:"fullDescription"`
	Requirements    []string `json:"requirements,omitempty" yaml:"requirements"`
	Documents       []string `json:"documents,omitempty" yaml:"documents"`
	Benefits        []string `json:"benefits,omitempty" yaml:"benefits"`
	GraceDays       int      `json:"grace_days,omitempty" yaml:"graceDays"`

	Cashback  string `json:"cashback,omitempty" yaml:"cashback"`
	Limit     string `json:"limit,omitempty" yaml:"limit"`
	Period    string `json:"period,omitempty" yaml:"period"`
	MinAmount string `json:"min_amount,omitempty" yaml:"minAmount"`
	MaxAmount string `json:"max_amount,omitempty" yaml:"maxAmount"`
}

// ProductDetail is the product page payload.
type ProductDetail struct {
	Product     Product   `json:"product"`
	RateDisplay string    `json:"rate_display"`
	RateLabel   string    `json:"rate_label"`
	Similar     []Product `json:"similar"`
}
