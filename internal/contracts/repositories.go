package contracts

import "context"

// ⭐ SSOT: repository interfaces are defined here only

// CompanyRepository is the persistence gateway for companies and their snapshots.
// Every mutating method runs in a single transaction.
type CompanyRepository interface {
	// BulkInsert inserts companies, then snapshots. Any constraint violation
	// returns ErrIntegrity and leaves the store unchanged.
	BulkInsert(ctx context.Context, companies []Company, financials []Financial) error

	// FindByName returns companies whose name contains pattern (case-sensitive),
	// each joined with its snapshot, ordered by ticker.
	FindByName(ctx context.Context, pattern string) ([]Company, error)

	// GetCompany returns the company with its snapshot joined, or ErrNotFound
	GetCompany(ctx context.Context, ticker string) (*Company, error)

	// GetFinancial returns the snapshot owned by ticker, or ErrNotFound
	GetFinancial(ctx context.Context, ticker string) (*Financial, error)

	// AddCompany inserts a company and its snapshot together
	AddCompany(ctx context.Context, company Company, financial Financial) error

	// ReplaceFinancial overwrites all nine snapshot fields, or returns ErrNotFound
	ReplaceFinancial(ctx context.Context, ticker string, values FinancialValues) error

	// DeleteCompany deletes the company; its snapshot cascades
	DeleteCompany(ctx context.Context, ticker string) error

	// ListCompanies returns every company ordered by ticker ascending
	ListCompanies(ctx context.Context) ([]Company, error)

	// TopByMetric ranks companies with a snapshot by the metric computed in the store,
	// descending with ticker as tie-break. Rows with a null operand or zero
	// denominator are excluded. At most n rows are returned.
	TopByMetric(ctx context.Context, metric Metric, n int) ([]RankedCompany, error)

	// CountCompanies returns the number of stored companies
	CountCompanies(ctx context.Context) (int, error)
}
