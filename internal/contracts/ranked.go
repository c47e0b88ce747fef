package contracts

import (
	"fmt"
	"strings"
)

// Metric is a ratio used for ranking companies
type Metric string

// Ranking metrics
const (
	MetricNDEBITDA Metric = "ND/EBITDA"
	MetricROE      Metric = "ROE"
	MetricROA      Metric = "ROA"
)

// Metrics lists every ranking metric in menu order
var Metrics = []Metric{MetricNDEBITDA, MetricROE, MetricROA}

var metricAliases = map[string]Metric{
	"nd/ebitda": MetricNDEBITDA,
	"nd-ebitda": MetricNDEBITDA,
	"nd_ebitda": MetricNDEBITDA,
	"ndebitda":  MetricNDEBITDA,
	"roe":       MetricROE,
	"roa":       MetricROA,
}

// ParseMetric resolves a metric name or alias, case-insensitively
func ParseMetric(s string) (Metric, error) {
	m, ok := metricAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Fields returns the snapshot columns the metric divides.
// Stores build their SQL only from these whitelisted names.
func (m Metric) Fields() (numerator, denominator string, err error) {
	switch m {
	case MetricNDEBITDA:
		return "net_debt", "ebitda", nil
	case MetricROE:
		return "net_profit", "equity", nil
	case MetricROA:
		return "net_profit", "assets", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
}

// Slug returns a path/key friendly form of the metric
func (m Metric) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(m)), "/", "-")
}

// RankedCompany is one row of a top-N ranking
type RankedCompany struct {
	Rank   int     `json:"rank"` // 1-based
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Sector string  `json:"sector"`
	Value  float64 `json:"value"` // metric rounded to two decimals
}

// Ranking is the result of a top-N request
type Ranking struct {
	Metric Metric          `json:"metric"`
	Limit  int             `json:"limit"`
	Items  []RankedCompany `json:"items"`
}
