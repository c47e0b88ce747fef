// Package sqlite implements contracts.CompanyRepository on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/ratio"
)

// Repository implements contracts.CompanyRepository
// ⭐ SSOT: SQLite company/financial persistence lives here only
type Repository struct {
	db *sql.DB
}

var _ contracts.CompanyRepository = (*Repository)(nil)

// NewRepository creates a new SQLite repository over a migrated database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const (
	insertCompanyQuery = `INSERT INTO companies (ticker, name, sector) VALUES (?, ?, ?)`

	insertFinancialQuery = `
		INSERT INTO financial (
			ticker, ebitda, sales, net_profit, market_price, net_debt,
			assets, equity, cash_equivalents, liabilities
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// companies LEFT JOIN financial; f.ticker is NULL when there is no snapshot
	selectCompanyJoined = `
		SELECT c.ticker, c.name, c.sector, f.ticker,
		       f.ebitda, f.sales, f.net_profit, f.market_price, f.net_debt,
		       f.assets, f.equity, f.cash_equivalents, f.liabilities
		FROM companies c
		LEFT JOIN financial f ON f.ticker = c.ticker
	`
)

// BulkInsert inserts all companies, then all snapshots, in one transaction
func (r *Repository) BulkInsert(ctx context.Context, companies []contracts.Company, financials []contracts.Financial) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range companies {
			if _, err := tx.ExecContext(ctx, insertCompanyQuery, c.Ticker, c.Name, c.Sector); err != nil {
				return fmt.Errorf("insert company %s: %w", c.Ticker, mapError(err))
			}
		}

		for _, f := range financials {
			if _, err := tx.ExecContext(ctx, insertFinancialQuery, financialArgs(f)...); err != nil {
				return fmt.Errorf("insert financial %s: %w", f.Ticker, mapError(err))
			}
		}

		return nil
	})
}

// AddCompany inserts one company and its snapshot in one transaction
func (r *Repository) AddCompany(ctx context.Context, company contracts.Company, financial contracts.Financial) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertCompanyQuery, company.Ticker, company.Name, company.Sector); err != nil {
			return fmt.Errorf("insert company %s: %w", company.Ticker, mapError(err))
		}

		financial.Ticker = company.Ticker
		if _, err := tx.ExecContext(ctx, insertFinancialQuery, financialArgs(financial)...); err != nil {
			return fmt.Errorf("insert financial %s: %w", company.Ticker, mapError(err))
		}

		return nil
	})
}

// FindByName returns companies whose name contains pattern, case-sensitively.
// instr() is used instead of LIKE, which is case-insensitive in SQLite and
// would treat % and _ in the pattern as wildcards.
func (r *Repository) FindByName(ctx context.Context, pattern string) ([]contracts.Company, error) {
	query := selectCompanyJoined + `
		WHERE instr(c.name, ?) > 0
		ORDER BY c.ticker
	`

	rows, err := r.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("query companies by name: %w", err)
	}
	defer rows.Close()

	companies := make([]contracts.Company, 0)
	for rows.Next() {
		c, err := scanCompanyJoined(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return companies, nil
}

// GetCompany returns one company with its snapshot joined
func (r *Repository) GetCompany(ctx context.Context, ticker string) (*contracts.Company, error) {
	row := r.db.QueryRowContext(ctx, selectCompanyJoined+` WHERE c.ticker = ?`, ticker)

	c, err := scanCompanyJoined(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", ticker, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// GetFinancial returns the snapshot owned by ticker
func (r *Repository) GetFinancial(ctx context.Context, ticker string) (*contracts.Financial, error) {
	query := `
		SELECT ticker, ebitda, sales, net_profit, market_price, net_debt,
		       assets, equity, cash_equivalents, liabilities
		FROM financial
		WHERE ticker = ?
	`

	f := contracts.Financial{}
	dest := []any{&f.Ticker}
	for _, p := range f.Pointers() {
		dest = append(dest, p)
	}

	err := r.db.QueryRowContext(ctx, query, ticker).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("financial %s: %w", ticker, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query financial %s: %w", ticker, err)
	}

	return &f, nil
}

// ReplaceFinancial overwrites every snapshot field of ticker
func (r *Repository) ReplaceFinancial(ctx context.Context, ticker string, values contracts.FinancialValues) error {
	query := `
		UPDATE financial SET
			ebitda = ?, sales = ?, net_profit = ?, market_price = ?, net_debt = ?,
			assets = ?, equity = ?, cash_equivalents = ?, liabilities = ?
		WHERE ticker = ?
	`

	return r.withTx(ctx, func(tx *sql.Tx) error {
		args := append(valueArgs(values), ticker)

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update financial %s: %w", ticker, mapError(err))
		}

		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("update financial %s: %w", ticker, err)
		} else if n == 0 {
			return fmt.Errorf("financial %s: %w", ticker, contracts.ErrNotFound)
		}

		return nil
	})
}

// DeleteCompany deletes the company; the snapshot goes with it via ON DELETE CASCADE
func (r *Repository) DeleteCompany(ctx context.Context, ticker string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE ticker = ?`, ticker)
		if err != nil {
			return fmt.Errorf("delete company %s: %w", ticker, mapError(err))
		}

		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("delete company %s: %w", ticker, err)
		} else if n == 0 {
			return fmt.Errorf("company %s: %w", ticker, contracts.ErrNotFound)
		}

		return nil
	})
}

// ListCompanies returns every company ordered by ticker (BINARY collation)
func (r *Repository) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker, name, sector FROM companies ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]contracts.Company, 0)
	for rows.Next() {
		var c contracts.Company
		if err := rows.Scan(&c.Ticker, &c.Name, &c.Sector); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return companies, nil
}

// TopByMetric ranks companies by the metric computed in SQL
func (r *Repository) TopByMetric(ctx context.Context, metric contracts.Metric, n int) ([]contracts.RankedCompany, error) {
	num, den, err := metric.Fields()
	if err != nil {
		return nil, err
	}

	ranked := make([]contracts.RankedCompany, 0)
	if n <= 0 {
		return ranked, nil
	}

	// Column names come from the Metric whitelist, never from user input
	query := fmt.Sprintf(`
		SELECT c.ticker, c.name, c.sector, CAST(f.%[1]s AS REAL) / f.%[2]s AS value
		FROM companies c
		JOIN financial f ON f.ticker = c.ticker
		WHERE f.%[1]s IS NOT NULL
		  AND f.%[2]s IS NOT NULL
		  AND f.%[2]s <> 0
		ORDER BY value DESC, c.ticker ASC
		LIMIT ?
	`, num, den)

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query top by %s: %w", metric, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc contracts.RankedCompany
		if err := rows.Scan(&rc.Ticker, &rc.Name, &rc.Sector, &rc.Value); err != nil {
			return nil, fmt.Errorf("scan ranked company: %w", err)
		}
		rc.Rank = len(ranked) + 1
		rc.Value = ratio.Round(rc.Value)
		ranked = append(ranked, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return ranked, nil
}

// CountCompanies returns the number of companies in the store
func (r *Repository) CountCompanies(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

// withTx runs fn in a transaction, rolling back on any error
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompanyJoined(s scanner) (*contracts.Company, error) {
	var (
		c               contracts.Company
		financialTicker sql.NullString
		values          contracts.FinancialValues
	)

	dest := []any{&c.Ticker, &c.Name, &c.Sector, &financialTicker}
	for _, p := range values.Pointers() {
		dest = append(dest, p)
	}

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	if financialTicker.Valid {
		f := contracts.NewFinancial(financialTicker.String, values)
		c.Financial = &f
	}

	return &c, nil
}

func financialArgs(f contracts.Financial) []any {
	return append([]any{f.Ticker}, valueArgs(f.FinancialValues)...)
}

func valueArgs(v contracts.FinancialValues) []any {
	args := make([]any, 0, len(contracts.FinancialFields))
	for _, p := range v.Pointers() {
		if *p == nil {
			args = append(args, nil)
			continue
		}
		args = append(args, **p)
	}
	return args
}

// mapError turns SQLite constraint failures into contracts.ErrIntegrity
func mapError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", contracts.ErrIntegrity, strings.TrimSpace(sqliteErr.Error()))
	}
	return err
}
