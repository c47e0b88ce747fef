// Package postgres implements contracts.CompanyRepository on top of PostgreSQL (pgx).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/ratio"
)

// PostgreSQL error codes mapped to ErrIntegrity
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
)

// Repository implements contracts.CompanyRepository
// ⭐ SSOT: PostgreSQL company/financial persistence lives here only
type Repository struct {
	pool *pgxpool.Pool
}

var _ contracts.CompanyRepository = (*Repository)(nil)

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const (
	insertCompanyQuery = `INSERT INTO companies (ticker, name, sector) VALUES ($1, $2, $3)`

	insertFinancialQuery = `
		INSERT INTO financial (
			ticker, ebitda, sales, net_profit, market_price, net_debt,
			assets, equity, cash_equivalents, liabilities
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	selectCompanyJoined = `
		SELECT c.ticker, c.name, c.sector, f.ticker,
		       f.ebitda, f.sales, f.net_profit, f.market_price, f.net_debt,
		       f.assets, f.equity, f.cash_equivalents, f.liabilities
		FROM companies c
		LEFT JOIN financial f ON f.ticker = c.ticker
	`
)

// BulkInsert sends every insert as one batch inside a transaction
func (r *Repository) BulkInsert(ctx context.Context, companies []contracts.Company, financials []contracts.Financial) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range companies {
			batch.Queue(insertCompanyQuery, c.Ticker, c.Name, c.Sector)
		}
		for _, f := range financials {
			batch.Queue(insertFinancialQuery, financialArgs(f)...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("bulk insert row %d: %w", i+1, mapError(err))
			}
		}

		if err := br.Close(); err != nil {
			return fmt.Errorf("bulk insert: %w", mapError(err))
		}
		return nil
	})
}

// AddCompany inserts one company and its snapshot in one transaction
func (r *Repository) AddCompany(ctx context.Context, company contracts.Company, financial contracts.Financial) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertCompanyQuery, company.Ticker, company.Name, company.Sector); err != nil {
			return fmt.Errorf("insert company %s: %w", company.Ticker, mapError(err))
		}

		financial.Ticker = company.Ticker
		if _, err := tx.Exec(ctx, insertFinancialQuery, financialArgs(financial)...); err != nil {
			return fmt.Errorf("insert financial %s: %w", company.Ticker, mapError(err))
		}

		return nil
	})
}

// FindByName returns companies whose name contains pattern, case-sensitively
func (r *Repository) FindByName(ctx context.Context, pattern string) ([]contracts.Company, error) {
	query := selectCompanyJoined + `
		WHERE strpos(c.name, $1) > 0
		ORDER BY c.ticker COLLATE "C"
	`

	rows, err := r.pool.Query(ctx, query, pattern)
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
	row := r.pool.QueryRow(ctx, selectCompanyJoined+` WHERE c.ticker = $1`, ticker)

	c, err := scanCompanyJoined(row)
	if errors.Is(err, pgx.ErrNoRows) {
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
		WHERE ticker = $1
	`

	f := contracts.Financial{}
	dest := []any{&f.Ticker}
	for _, p := range f.Pointers() {
		dest = append(dest, p)
	}

	err := r.pool.QueryRow(ctx, query, ticker).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
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
			ebitda = $2, sales = $3, net_profit = $4, market_price = $5, net_debt = $6,
			assets = $7, equity = $8, cash_equivalents = $9, liabilities = $10
		WHERE ticker = $1
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		args := append([]any{ticker}, valueArgs(values)...)

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update financial %s: %w", ticker, mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("financial %s: %w", ticker, contracts.ErrNotFound)
		}

		return nil
	})
}

// DeleteCompany deletes the company; the snapshot goes with it via ON DELETE CASCADE
func (r *Repository) DeleteCompany(ctx context.Context, ticker string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM companies WHERE ticker = $1`, ticker)
		if err != nil {
			return fmt.Errorf("delete company %s: %w", ticker, mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("company %s: %w", ticker, contracts.ErrNotFound)
		}

		return nil
	})
}

// ListCompanies returns every company ordered by ticker (byte order, same as SQLite)
func (r *Repository) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT ticker, name, sector FROM companies ORDER BY ticker COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}

	companies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.Company, error) {
		var c contracts.Company
		err := row.Scan(&c.Ticker, &c.Name, &c.Sector)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan companies: %w", err)
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
		SELECT c.ticker, c.name, c.sector, f.%[1]s / f.%[2]s AS value
		FROM companies c
		JOIN financial f ON f.ticker = c.ticker
		WHERE f.%[1]s IS NOT NULL
		  AND f.%[2]s IS NOT NULL
		  AND f.%[2]s <> 0
		ORDER BY value DESC, c.ticker COLLATE "C" ASC
		LIMIT $1
	`, num, den)

	rows, err := r.pool.Query(ctx, query, n)
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

func scanCompanyJoined(row pgx.Row) (*contracts.Company, error) {
	var (
		c               contracts.Company
		financialTicker *string
		values          contracts.FinancialValues
	)

	dest := []any{&c.Ticker, &c.Name, &c.Sector, &financialTicker}
	for _, p := range values.Pointers() {
		dest = append(dest, p)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	if financialTicker != nil {
		f := contracts.NewFinancial(*financialTicker, values)
		c.Financial = &f
	}

	return &c, nil
}

func financialArgs(f contracts.Financial) []any {
	return append([]any{f.Ticker}, valueArgs(f.FinancialValues)...)
}

// valueArgs passes the nine *float64 fields as-is; pgx encodes nil as NULL
func valueArgs(v contracts.FinancialValues) []any {
	args := make([]any, 0, len(contracts.FinancialFields))
	for _, p := range v.Pointers() {
		args = append(args, *p)
	}
	return args
}

// mapError turns constraint violations into contracts.ErrIntegrity
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation, codeNotNullViolation:
			return fmt.Errorf("%w: %s (%s)", contracts.ErrIntegrity, pgErr.Message, pgErr.ConstraintName)
		}
	}
	return err
}
