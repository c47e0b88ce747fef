package contracts

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Company is a listed company identified by its ticker
// ⭐ SSOT: company/snapshot entity definitions live here
type Company struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`

	// Financial is filled by eager-joined reads; nil when the company has no snapshot
	// or the read did not join it.
	Financial *Financial `json:"financial,omitempty"`
}

// NewCompany creates a company record without a snapshot
func NewCompany(ticker, name, sector string) Company {
	return Company{
		Ticker: ticker,
		Name:   name,
		Sector: sector,
	}
}

// HasFinancial reports whether the company carries a snapshot
func (c *Company) HasFinancial() bool {
	return c.Financial != nil
}

// FinancialValues holds the nine statement figures of a snapshot.
// A nil field means the figure is unknown, which is not the same as zero.
type FinancialValues struct {
	EBITDA          *float64 `json:"ebitda"`
	Sales           *float64 `json:"sales"`
	NetProfit       *float64 `json:"net_profit"`
	MarketPrice     *float64 `json:"market_price"`
	NetDebt         *float64 `json:"net_debt"`
	Assets          *float64 `json:"assets"`
	Equity          *float64 `json:"equity"`
	CashEquivalents *float64 `json:"cash_equivalents"`
	Liabilities     *float64 `json:"liabilities"`
}

// Financial is the single current snapshot owned by a company.
// The owning company is looked up by Ticker; no pointer back is kept.
type Financial struct {
	Ticker string `json:"ticker"`
	FinancialValues
}

// NewFinancial creates a snapshot for ticker
func NewFinancial(ticker string, values FinancialValues) Financial {
	return Financial{
		Ticker:          ticker,
		FinancialValues: values,
	}
}

// FinancialFields lists the snapshot columns in schema order
var FinancialFields = []string{
	"ebitda",
	"sales",
	"net_profit",
	"market_price",
	"net_debt",
	"assets",
	"equity",
	"cash_equivalents",
	"liabilities",
}

// Pointers returns the field pointers in FinancialFields order.
// Used for scanning rows and for binding query arguments.
func (v *FinancialValues) Pointers() []**float64 {
	return []**float64{
		&v.EBITDA,
		&v.Sales,
		&v.NetProfit,
		&v.MarketPrice,
		&v.NetDebt,
		&v.Assets,
		&v.Equity,
		&v.CashEquivalents,
		&v.Liabilities,
	}
}

// Field returns the value of the named column (see FinancialFields)
func (v *FinancialValues) Field(name string) (*float64, bool) {
	for i, field := range FinancialFields {
		if field == name {
			return *v.Pointers()[i], true
		}
	}
	return nil, false
}

// Float returns a pointer to f, for building FinancialValues literals
func Float(f float64) *float64 {
	return &f
}

// ParseFigure parses one statement figure. Blank means unknown (nil).
// The error does not wrap ErrParse; callers decide how to classify it.
func ParseFigure(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}

	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return nil, fmt.Errorf("number out of range %q", raw)
	}
	return &f, nil
}
