package contracts

// Ratio names in report order
const (
	RatioPE       = "P/E"
	RatioPS       = "P/S"
	RatioPB       = "P/B"
	RatioNDEBITDA = "ND/EBITDA"
	RatioROE      = "ROE"
	RatioROA      = "ROA"
	RatioLA       = "L/A"
)

// Ratios holds the seven valuation ratios of a snapshot.
// A nil ratio is undefined (missing operand or zero denominator).
type Ratios struct {
	PE       *float64 `json:"pe"`
	PS       *float64 `json:"ps"`
	PB       *float64 `json:"pb"`
	NDEBITDA *float64 `json:"nd_ebitda"`
	ROE      *float64 `json:"roe"`
	ROA      *float64 `json:"roa"`
	LA       *float64 `json:"la"`
}

// NamedRatio pairs a ratio name with its value
type NamedRatio struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Named returns the ratios in report order
func (r Ratios) Named() []NamedRatio {
	return []NamedRatio{
		{Name: RatioPE, Value: r.PE},
		{Name: RatioPS, Value: r.PS},
		{Name: RatioPB, Value: r.PB},
		{Name: RatioNDEBITDA, Value: r.NDEBITDA},
		{Name: RatioROE, Value: r.ROE},
		{Name: RatioROA, Value: r.ROA},
		{Name: RatioLA, Value: r.LA},
	}
}

// CompanyReport is the read result: company identity plus its ratios
type CompanyReport struct {
	Company Company `json:"company"`
	Ratios  Ratios  `json:"ratios"`
}
