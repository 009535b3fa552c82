package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0 // % per year
	MaxTermMonths   = 600
	MinTermMonths   = 1
	MaxGraceDays    = 365

	// product page calculator defaults and slider range
	DefaultLoanAmount = 300_000.0
	DefaultLoanTerm   = 24
	DefaultGraceDays  = 120
	SliderMinTerm     = 6
	SliderMaxTerm     = 84
	SliderTermStep    = 6

	MaxTermOptions = 120

	SimilarProductsLimit = 2
	DefaultSuggestLimit  = 5

	DefaultCacheTTL      = 10 * time.Minute
	DefaultRedirectDelay = 2 * time.Second
	DefaultDraftIdleTTL  = 30 * time.Minute
)
