package session

import (
	"fmt"
	"strings"

	"github.com/wonny/investor/internal/contracts"
)

// Selection picks one company out of a name search: the Index-th match
// (0-based) of the companies whose name contains Query, ordered by ticker.
type Selection struct {
	Query string `json:"query"`
	Index int    `json:"index"`
}

// FinancialInput holds the nine figures as entered (CLI flags, prompts, JSON).
// A blank figure is unknown.
type FinancialInput struct {
	EBITDA          string `json:"ebitda"`
	Sales           string `json:"sales"`
	NetProfit       string `json:"net_profit"`
	MarketPrice     string `json:"market_price"`
	NetDebt         string `json:"net_debt"`
	Assets          string `json:"assets"`
	Equity          string `json:"equity"`
	CashEquivalents string `json:"cash_equivalents"`
	Liabilities     string `json:"liabilities"`
}

// Raw returns the input strings in contracts.FinancialFields order
func (in *FinancialInput) Raw() []*string {
	return []*string{
		&in.EBITDA,
		&in.Sales,
		&in.NetProfit,
		&in.MarketPrice,
		&in.NetDebt,
		&in.Assets,
		&in.Equity,
		&in.CashEquivalents,
		&in.Liabilities,
	}
}

// Parse validates every figure. The first bad field is reported as ErrParse.
func (in FinancialInput) Parse() (contracts.FinancialValues, error) {
	var values contracts.FinancialValues

	raw := in.Raw()
	for i, p := range values.Pointers() {
		v, err := contracts.ParseFigure(*raw[i])
		if err != nil {
			return contracts.FinancialValues{}, fmt.Errorf("%w: %s: %v", contracts.ErrParse, contracts.FinancialFields[i], err)
		}
		*p = v
	}

	return values, nil
}

// CreateInput is a new company with its snapshot, as entered
type CreateInput struct {
	Ticker    string         `json:"ticker"`
	Name      string         `json:"name"`
	Sector    string         `json:"sector"`
	Financial FinancialInput `json:"financial"`
}

// CreateParams is a validated CreateInput
type CreateParams struct {
	Company contracts.Company
	Values  contracts.FinancialValues
}

// Parse validates the input before any write happens
func (in CreateInput) Parse() (CreateParams, error) {
	ticker := strings.TrimSpace(in.Ticker)
	if ticker == "" {
		return CreateParams{}, fmt.Errorf("%w: ticker is required", contracts.ErrParse)
	}

	values, err := in.Financial.Parse()
	if err != nil {
		return CreateParams{}, err
	}

	return CreateParams{
		Company: contracts.NewCompany(ticker, strings.TrimSpace(in.Name), strings.TrimSpace(in.Sector)),
		Values:  values,
	}, nil
}
