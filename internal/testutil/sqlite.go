// Package testutil provides database helpers and fixtures for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/pkg/database"
	"github.com/wonny/investor/pkg/logger"
)

// NewSQLiteDB creates a migrated SQLite database in a per-test temp dir.
// The database is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *database.SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "investor_test.db")

	db, err := database.NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Migrate(context.Background(), logger.NewNop()); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})

	return db
}

// Fixture is a company with its snapshot, as loaded by BulkInsert
type Fixture struct {
	Company   contracts.Company
	Financial contracts.Financial
}

// Split returns the companies and snapshots of fixtures in input order
func Split(fixtures []Fixture) ([]contracts.Company, []contracts.Financial) {
	companies := make([]contracts.Company, 0, len(fixtures))
	financials := make([]contracts.Financial, 0, len(fixtures))
	for _, f := range fixtures {
		companies = append(companies, f.Company)
		financials = append(financials, f.Financial)
	}
	return companies, financials
}

// NewFixture builds a fixture whose snapshot has every field set
func NewFixture(ticker, name, sector string, values contracts.FinancialValues) Fixture {
	return Fixture{
		Company:   contracts.NewCompany(ticker, name, sector),
		Financial: contracts.NewFinancial(ticker, values),
	}
}

// AAAValues is the snapshot used by the AAA/Alpha Corp scenario
func AAAValues() contracts.FinancialValues {
	return contracts.FinancialValues{
		EBITDA:          contracts.Float(10),
		Sales:           contracts.Float(100),
		NetProfit:       contracts.Float(5),
		MarketPrice:     contracts.Float(50),
		NetDebt:         contracts.Float(20),
		Assets:          contracts.Float(200),
		Equity:          contracts.Float(40),
		CashEquivalents: contracts.Float(1),
		Liabilities:     contracts.Float(160),
	}
}

// Companies returns a small seed set:
// AAA Alpha Corp, BBB Beta Inc, CCC Gamma Alpha Holdings
func Companies() []Fixture {
	return []Fixture{
		NewFixture("AAA", "Alpha Corp", "Tech", AAAValues()),
		NewFixture("BBB", "Beta Inc", "Energy", contracts.FinancialValues{
			EBITDA:      contracts.Float(0),
			Sales:       contracts.Float(0),
			NetProfit:   contracts.Float(3),
			MarketPrice: contracts.Float(9),
			NetDebt:     contracts.Float(4),
			Assets:      contracts.Float(30),
			Equity:      contracts.Float(0),
			Liabilities: contracts.Float(30),
		}),
		NewFixture("CCC", "Gamma Alpha Holdings", "Finance", contracts.FinancialValues{
			EBITDA:      contracts.Float(8),
			Sales:       contracts.Float(40),
			NetProfit:   contracts.Float(6),
			MarketPrice: contracts.Float(12),
			NetDebt:     contracts.Float(-2),
			Assets:      contracts.Float(60),
			Equity:      contracts.Float(24),
			Liabilities: contracts.Float(36),
		}),
	}
}

// Seed loads fixtures through repo.BulkInsert, failing the test on error
func Seed(t *testing.T, repo contracts.CompanyRepository, fixtures []Fixture) {
	t.Helper()

	companies, financials := Split(fixtures)
	if err := repo.BulkInsert(context.Background(), companies, financials); err != nil {
		t.Fatalf("Failed to seed companies: %v", err)
	}
}
