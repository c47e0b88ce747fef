package menu

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wonny/investor/internal/contracts"
)

// FormatValue prints a ratio the way the report layout expects:
// nil as "None", whole numbers with one decimal ("2.0").
func FormatValue(v *float64) string {
	if v == nil {
		return "None"
	}
	return formatFloat(*v)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		s += ".0"
	}
	return s
}

// WriteReport prints "TICKER NAME" followed by one "RATIO = value" line per ratio
func WriteReport(w io.Writer, report *contracts.CompanyReport) {
	fmt.Fprintf(w, "%s %s\n", report.Company.Ticker, report.Company.Name)
	for _, r := range report.Ratios.Named() {
		fmt.Fprintf(w, "%s = %s\n", r.Name, FormatValue(r.Value))
	}
}

// WriteCompanyList prints the COMPANY LIST block
func WriteCompanyList(w io.Writer, companies []contracts.Company) {
	fmt.Fprintln(w, "COMPANY LIST")
	for _, c := range companies {
		fmt.Fprintf(w, "%s %s %s\n", c.Ticker, c.Name, c.Sector)
	}
}

// WriteMatches prints numbered search matches for selection
func WriteMatches(w io.Writer, matches []contracts.Company) {
	for i, c := range matches {
		fmt.Fprintf(w, "%d %s\n", i, c.Name)
	}
}

// WriteRanking prints "TICKER <metric>" followed by one line per company
func WriteRanking(w io.Writer, ranking *contracts.Ranking) {
	fmt.Fprintf(w, "TICKER %s\n", ranking.Metric)
	for _, item := range ranking.Items {
		fmt.Fprintf(w, "%s %s\n", item.Ticker, formatFloat(item.Value))
	}
}
