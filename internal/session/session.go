// Package session implements the investor use cases over a company store.
//
// A Session is built by the caller and passed around explicitly; it holds no
// per-user state between calls.
package session

import (
	"context"
	"fmt"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/loader"
	"github.com/wonny/investor/internal/ratio"
	"github.com/wonny/investor/pkg/logger"
)

// Session runs create/read/update/delete/list/rank use cases
// ⭐ SSOT: use case orchestration lives here; callers only render results
type Session struct {
	repo   contracts.CompanyRepository
	ranker contracts.Ranker
	logger *logger.Logger
}

// New creates a new session
func New(repo contracts.CompanyRepository, ranker contracts.Ranker, log *logger.Logger) *Session {
	return &Session{
		repo:   repo,
		ranker: ranker,
		logger: log,
	}
}

// Search returns companies whose name contains query, ordered by ticker.
// No match is ErrNotFound.
func (s *Session) Search(ctx context.Context, query string) ([]contracts.Company, error) {
	matches, err := s.repo.FindByName(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("company matching %q: %w", query, contracts.ErrNotFound)
	}
	return matches, nil
}

// Select resolves a selection to one company with its snapshot
func (s *Session) Select(ctx context.Context, sel Selection) (*contracts.Company, error) {
	matches, err := s.Search(ctx, sel.Query)
	if err != nil {
		return nil, err
	}

	if sel.Index < 0 || sel.Index >= len(matches) {
		return nil, fmt.Errorf("%w: index %d, %d match(es) for %q",
			contracts.ErrInvalidSelection, sel.Index, len(matches), sel.Query)
	}

	return &matches[sel.Index], nil
}

// CreateCompany adds a company and its snapshot
func (s *Session) CreateCompany(ctx context.Context, params CreateParams) (*contracts.CompanyReport, error) {
	company := params.Company
	financial := contracts.NewFinancial(company.Ticker, params.Values)

	if err := s.repo.AddCompany(ctx, company, financial); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.WithField("ticker", company.Ticker).Info("Company created")

	company.Financial = &financial
	return report(company), nil
}

// ReadCompany returns the selected company with its ratios
func (s *Session) ReadCompany(ctx context.Context, sel Selection) (*contracts.CompanyReport, error) {
	company, err := s.Select(ctx, sel)
	if err != nil {
		return nil, err
	}
	return report(*company), nil
}

// UpdateCompany replaces the selected company's snapshot
func (s *Session) UpdateCompany(ctx context.Context, sel Selection, values contracts.FinancialValues) (*contracts.CompanyReport, error) {
	company, err := s.Select(ctx, sel)
	if err != nil {
		return nil, err
	}
	return s.UpdateByTicker(ctx, company.Ticker, values)
}

// DeleteCompany deletes the selected company and its snapshot
func (s *Session) DeleteCompany(ctx context.Context, sel Selection) (*contracts.Company, error) {
	company, err := s.Select(ctx, sel)
	if err != nil {
		return nil, err
	}

	if err := s.deleteTicker(ctx, company.Ticker); err != nil {
		return nil, err
	}
	return company, nil
}

// ListCompanies returns every company ordered by ticker
func (s *Session) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// Rank returns the top n companies by metric
func (s *Session) Rank(ctx context.Context, metric contracts.Metric, n int) (*contracts.Ranking, error) {
	return s.ranker.Top(ctx, metric, n)
}

// ReportByTicker returns the report of the company with exactly this ticker
func (s *Session) ReportByTicker(ctx context.Context, ticker string) (*contracts.CompanyReport, error) {
	company, err := s.repo.GetCompany(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return report(*company), nil
}

// UpdateByTicker replaces the snapshot of ticker and returns the new report
func (s *Session) UpdateByTicker(ctx context.Context, ticker string, values contracts.FinancialValues) (*contracts.CompanyReport, error) {
	if err := s.repo.ReplaceFinancial(ctx, ticker, values); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.WithField("ticker", ticker).Info("Company updated")

	return s.ReportByTicker(ctx, ticker)
}

// DeleteByTicker deletes the company with exactly this ticker
func (s *Session) DeleteByTicker(ctx context.Context, ticker string) (*contracts.Company, error) {
	company, err := s.repo.GetCompany(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := s.deleteTicker(ctx, ticker); err != nil {
		return nil, err
	}
	return company, nil
}

// Bootstrap loads a data set in one transaction and returns the rows inserted
func (s *Session) Bootstrap(ctx context.Context, batch *loader.Batch) (int, error) {
	if err := s.repo.BulkInsert(ctx, batch.Companies, batch.Financials); err != nil {
		s.logger.WithError(err).Warn("Bootstrap rolled back")
		return 0, err
	}
	s.invalidate(ctx)

	s.logger.WithFields(map[string]interface{}{
		"companies":  len(batch.Companies),
		"financials": len(batch.Financials),
	}).Info("Bootstrap completed")

	return batch.Size(), nil
}

// IsEmpty reports whether the store holds no companies
func (s *Session) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.repo.CountCompanies(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *Session) deleteTicker(ctx context.Context, ticker string) error {
	if err := s.repo.DeleteCompany(ctx, ticker); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.logger.WithField("ticker", ticker).Info("Company deleted")
	return nil
}

// invalidate drops cached rankings; the write itself already succeeded
func (s *Session) invalidate(ctx context.Context) {
	if err := s.ranker.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Ranking cache invalidation failed")
	}
}

func report(company contracts.Company) *contracts.CompanyReport {
	return &contracts.CompanyReport{
		Company: company,
		Ratios:  ratio.Compute(company.Financial),
	}
}
