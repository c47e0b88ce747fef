// Package loader reads the bootstrap data set (companies.csv, financial.csv)
// into batches for CompanyRepository.BulkInsert.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/investor/internal/contracts"
)

// Bootstrap file names inside the data directory
const (
	CompaniesFile  = "companies.csv"
	FinancialsFile = "financial.csv"
)

var (
	// ErrSource: a data file is missing or unreadable
	ErrSource = errors.New("data source error")

	// ErrMalformed: bad header, bad row shape or non-numeric cell
	ErrMalformed = errors.New("malformed data")
)

var companyColumns = []string{"ticker", "name", "sector"}

// Batch is one bootstrap data set, in file order
type Batch struct {
	Companies  []contracts.Company
	Financials []contracts.Financial
}

// Size returns the number of rows in the batch
func (b *Batch) Size() int {
	return len(b.Companies) + len(b.Financials)
}

// LoadDir reads companies.csv and financial.csv from dir
func LoadDir(dir string) (*Batch, error) {
	companies, err := readFile(filepath.Join(dir, CompaniesFile), ReadCompanies)
	if err != nil {
		return nil, err
	}

	financials, err := readFile(filepath.Join(dir, FinancialsFile), ReadFinancials)
	if err != nil {
		return nil, err
	}

	return &Batch{Companies: companies, Financials: financials}, nil
}

func readFile[T any](path string, read func(io.Reader, string) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer f.Close()

	return read(f, filepath.Base(path))
}

// ReadCompanies parses a companies CSV (ticker, name, sector; extra columns ignored)
func ReadCompanies(r io.Reader, name string) ([]contracts.Company, error) {
	records, idx, err := readRecords(r, name, companyColumns)
	if err != nil {
		return nil, err
	}

	companies := make([]contracts.Company, 0, len(records))
	for i, rec := range records {
		line := i + 2
		ticker := field(rec, idx, "ticker")
		if ticker == "" {
			return nil, fmt.Errorf("%w: %s line %d: empty ticker", ErrMalformed, name, line)
		}

		companies = append(companies, contracts.NewCompany(
			ticker,
			field(rec, idx, "name"),
			field(rec, idx, "sector"),
		))
	}

	return companies, nil
}

// ReadFinancials parses a financial CSV (ticker plus the nine figures).
// Blank cells are unknown values.
func ReadFinancials(r io.Reader, name string) ([]contracts.Financial, error) {
	required := append([]string{"ticker"}, contracts.FinancialFields...)

	records, idx, err := readRecords(r, name, required)
	if err != nil {
		return nil, err
	}

	financials := make([]contracts.Financial, 0, len(records))
	for i, rec := range records {
		line := i + 2
		ticker := field(rec, idx, "ticker")
		if ticker == "" {
			return nil, fmt.Errorf("%w: %s line %d: empty ticker", ErrMalformed, name, line)
		}

		var values contracts.FinancialValues
		for j, p := range values.Pointers() {
			col := contracts.FinancialFields[j]
			v, err := contracts.ParseFigure(field(rec, idx, col))
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d column %s: %v", ErrMalformed, name, line, col, err)
			}
			*p = v
		}

		financials = append(financials, contracts.NewFinancial(ticker, values))
	}

	return financials, nil
}

// readRecords reads the header and all rows, checking that every required
// column is present. The returned index maps column name to position.
func readRecords(r io.Reader, name string, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %s: missing header", ErrMalformed, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	idx := buildColumnIndex(header)
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s: missing column %q", ErrMalformed, name, col)
		}
	}

	// csv.Reader enforces the header's field count on every row
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	return records, idx, nil
}

// buildColumnIndex creates a map from column name to record index
func buildColumnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return idx
}

func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
