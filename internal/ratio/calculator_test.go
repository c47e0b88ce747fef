package ratio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investor/internal/contracts"
)

func f(v float64) *float64 { return &v }

func TestCalculateRatio(t *testing.T) {
	tests := []struct {
		name string
		num  *float64
		den  *float64
		want float64
	}{
		{"exact", f(200), f(100), 2.0},
		{"repeating", f(10), f(3), 3.33},
		{"rounds up", f(2), f(3), 0.67},
		{"negative", f(-10), f(3), -3.33},
		{"half to even down", f(1), f(8), 0.12},
		{"half to even up", f(3), f(8), 0.38},
		{"binary below half", f(2675), f(1000), 2.67},
		{"binary below half small", f(1115), f(1000), 1.11},
		{"binary half down", f(10045), f(1000), 10.04},
		{"large", f(987654321), f(123456789), 8.0},
		{"zero numerator", f(0), f(5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRatio(tt.num, tt.den)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCalculateRatio_Undefined(t *testing.T) {
	tests := []struct {
		name string
		num  *float64
		den  *float64
	}{
		{"zero denominator", f(1), f(0)},
		{"negative zero denominator", f(1), f(math.Copysign(0, -1))},
		{"nil numerator", nil, f(5)},
		{"nil denominator", f(5), nil},
		{"both nil", nil, nil},
		{"NaN numerator", f(math.NaN()), f(2)},
		{"infinite denominator", f(2), f(math.Inf(1))},
		{"overflow", f(math.MaxFloat64), f(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, CalculateRatio(tt.num, tt.den))
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 5.0, Round(5))
	assert.Equal(t, 2.5, Round(2.5))
	assert.Equal(t, 0.33, Round(1.0/3))
	assert.Equal(t, -1.67, Round(-5.0/3))
	assert.Equal(t, 2.67, Round(2.675))
	assert.Equal(t, 0.12, Round(0.125))
	assert.Equal(t, 0.38, Round(0.375))
	assert.True(t, math.IsInf(Round(math.Inf(1)), 1))
}

func TestCompute(t *testing.T) {
	snapshot := contracts.NewFinancial("AAA", contracts.FinancialValues{
		EBITDA:      f(50),
		Sales:       f(400),
		NetProfit:   f(100),
		MarketPrice: f(200),
		NetDebt:     f(25),
		Assets:      f(1000),
		Equity:      f(0),
		Liabilities: f(300),
	})

	ratios := Compute(&snapshot)

	assert.Equal(t, 2.0, *ratios.PE)
	assert.Equal(t, 0.5, *ratios.PS)
	assert.Equal(t, 0.2, *ratios.PB)
	assert.Equal(t, 0.5, *ratios.NDEBITDA)
	assert.Nil(t, ratios.ROE, "zero equity makes ROE undefined")
	assert.Equal(t, 0.1, *ratios.ROA)
	assert.Equal(t, 0.3, *ratios.LA)
}

func TestCompute_NullNetProfit(t *testing.T) {
	aaa := contracts.NewFinancial("AAA", contracts.FinancialValues{NetProfit: f(100), MarketPrice: f(200)})
	bbb := contracts.NewFinancial("BBB", contracts.FinancialValues{MarketPrice: f(50)})

	pe := Compute(&aaa).PE
	require.NotNil(t, pe)
	assert.Equal(t, 2.0, *pe)

	assert.Nil(t, Compute(&bbb).PE)
}

func TestCompute_NilSnapshot(t *testing.T) {
	ratios := Compute(nil)
	for _, r := range ratios.Named() {
		assert.Nil(t, r.Value, r.Name)
	}
}
