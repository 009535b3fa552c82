package domain

// Review is a customer review of a catalog product.
type Review struct {
	ID        int      `json:"id" yaml:"id"`
	ProductID int      `json:"product_id" yaml:"productId"`
	Author    string   `json:"author" yaml:"author"`
	Rating    int      `json:"rating" yaml:"rating"`
	Date      string   `json:"date" yaml:"date"`
	Text      string   `json:"text" yaml:"text"`
	Pros      []string `json:"pros" yaml:"pros"`
	Cons      []string `json:"cons" yaml:"cons"`
	Helpful   int      `json:"helpful" yaml:"helpful"`
}

type ReviewSort string

const (
	SortRecent  ReviewSort = "recent"
	SortRating  ReviewSort = "rating"
	SortHelpful ReviewSort = "helpful"
)

// ReviewQuery selects reviews. Zero ProductID or Rating means "all".
type ReviewQuery struct {
	ProductID int
	Rating    int
	Sort      ReviewSort
}

// RatingSummary aggregates the ratings of one product.
// Distribution and Percent are indexed by star count (index 0 unused).
type RatingSummary struct {
	ProductID    int        `json:"product_id"`
	ProductTitle string     `json:"product_title,omitempty"`
	Bank         string     `json:"bank,omitempty"`
	Average      float64    `json:"average"`
	Total        int        `json:"total"`
	Distribution [6]int     `json:"distribution"`
	Percent      [6]float64 `json:"percent"`
}

// Catalog is the full reference data set served by a catalog provider.
type Catalog struct {
	Products []Product `yaml:"products"`
	Reviews  []Review  `yaml:"reviews"`
}
