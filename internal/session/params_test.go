package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investor/internal/contracts"
)

func TestFinancialInput_Parse(t *testing.T) {
	in := FinancialInput{
		EBITDA:      "987654321",
		Sales:       "",
		NetProfit:   "-5.5",
		Liabilities: " 12 ",
	}

	values, err := in.Parse()
	require.NoError(t, err)

	require.NotNil(t, values.EBITDA)
	assert.Equal(t, 987654321.0, *values.EBITDA)
	assert.Nil(t, values.Sales)
	assert.Equal(t, -5.5, *values.NetProfit)
	assert.Equal(t, 12.0, *values.Liabilities)
	assert.Nil(t, values.Assets)
}

func TestFinancialInput_Parse_Error(t *testing.T) {
	in := FinancialInput{EBITDA: "1", Equity: "forty"}

	_, err := in.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrParse)
	assert.Contains(t, err.Error(), "equity")
	assert.Equal(t, contracts.OutcomeParse, contracts.Classify(err))
}

func TestCreateInput_Parse(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateInput
		wantErr bool
	}{
		{"valid", CreateInput{Ticker: "MOON", Name: "Moon Corp", Sector: "Technology"}, false},
		{"blank ticker", CreateInput{Ticker: "  ", Name: "Moon Corp"}, true},
		{"bad figure", CreateInput{Ticker: "MOON", Financial: FinancialInput{Sales: "1.2.3"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.in.Parse()
			if tt.wantErr {
				assert.ErrorIs(t, err, contracts.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "MOON", params.Company.Ticker)
			assert.Equal(t, contracts.FinancialValues{}, params.Values)
		})
	}
}
