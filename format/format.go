// Package format renders money, rates and terms for display.
package format

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	CurrencySuffix = " ₽"

	// humanize directive: space thousands separator, no fraction digits
	wholeUnits = "# ###."
)

// Currency rounds v to whole units and groups thousands with spaces.
func Currency(v float64) string {
	return humanize.FormatInteger(wholeUnits, int(math.Round(v))) + CurrencySuffix
}

// Rate prints a percentage in its shortest decimal form: 7.5%, 5%, 299%.
func Rate(v float64) string {
	return decimal.NewFromFloat(v).String() + "%"
}

// Years converts a term in months to years with at most one decimal.
func Years(months int) string {
	return decimal.NewFromInt(int64(months)).
		Div(decimal.NewFromInt(12)).
		Round(1).
		String()
}
