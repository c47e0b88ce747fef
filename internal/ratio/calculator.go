// Package ratio computes valuation ratios from a financial snapshot.
// Undefined ratios are nil, never an error.
package ratio

import (
	"math"
	"strconv"

	"github.com/wonny/investor/internal/contracts"
)

// Places is the number of decimals every ratio is rounded to
const Places = 2

// CalculateRatio returns the float64 quotient numerator/denominator rounded to
// two decimals. It returns nil when either operand is nil or not finite,
// when the denominator is zero, or when the quotient does not fit a float64.
func CalculateRatio(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil {
		return nil
	}

	n, d := *numerator, *denominator
	if !finite(n) || !finite(d) || d == 0 {
		return nil
	}

	q := n / d
	if !finite(q) {
		return nil
	}

	v := Round(q)
	return &v
}

// Round rounds v to two decimals by its exact binary value, so 2.675
// (stored as 2.67499...) becomes 2.67 and an exact half like 0.125 goes to even.
// Store-computed metric values go through here too.
func Round(v float64) float64 {
	if !finite(v) {
		return v
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', Places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Compute derives the seven report ratios from a snapshot.
// A nil snapshot yields all-nil ratios.
func Compute(f *contracts.Financial) contracts.Ratios {
	if f == nil {
		return contracts.Ratios{}
	}

	return contracts.Ratios{
		PE:       CalculateRatio(f.MarketPrice, f.NetProfit),
		PS:       CalculateRatio(f.MarketPrice, f.Sales),
		PB:       CalculateRatio(f.MarketPrice, f.Assets),
		NDEBITDA: CalculateRatio(f.NetDebt, f.EBITDA),
		ROE:      CalculateRatio(f.NetProfit, f.Equity),
		ROA:      CalculateRatio(f.NetProfit, f.Assets),
		LA:       CalculateRatio(f.Liabilities, f.Assets),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
