package contracts

import (
	"errors"
	"testing"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr bool
	}{
		{"ND/EBITDA", MetricNDEBITDA, false},
		{"nd-ebitda", MetricNDEBITDA, false},
		{"nd_ebitda", MetricNDEBITDA, false},
		{"ROE", MetricROE, false},
		{" roa ", MetricROA, false},
		{"P/E", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMetric) {
					t.Errorf("ParseMetric(%q) error = %v, want ErrUnknownMetric", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMetric(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMetric(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetricFields(t *testing.T) {
	tests := []struct {
		metric   Metric
		num, den string
	}{
		{MetricNDEBITDA, "net_debt", "ebitda"},
		{MetricROE, "net_profit", "equity"},
		{MetricROA, "net_profit", "assets"},
	}

	for _, tt := range tests {
		num, den, err := tt.metric.Fields()
		if err != nil {
			t.Fatalf("%s.Fields() error: %v", tt.metric, err)
		}
		if num != tt.num || den != tt.den {
			t.Errorf("%s.Fields() = %s/%s, want %s/%s", tt.metric, num, den, tt.num, tt.den)
		}
	}

	if _, _, err := Metric("DROP TABLE").Fields(); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric for unknown metric, got %v", err)
	}
}

func TestMetricSlug(t *testing.T) {
	if got := MetricNDEBITDA.Slug(); got != "nd-ebitda" {
		t.Errorf("Slug() = %q, want nd-ebitda", got)
	}
	if got := MetricROE.Slug(); got != "roe" {
		t.Errorf("Slug() = %q, want roe", got)
	}
}
