package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/loader"
	"github.com/wonny/investor/internal/ranking"
	"github.com/wonny/investor/internal/store/sqlite"
	"github.com/wonny/investor/internal/testutil"
	"github.com/wonny/investor/pkg/logger"
)

// countingRanker wraps a Ranker and counts invalidations
type countingRanker struct {
	contracts.Ranker
	invalidations int
}

func (c *countingRanker) Invalidate(ctx context.Context) error {
	c.invalidations++
	return c.Ranker.Invalidate(ctx)
}

func newSession(t *testing.T, fixtures []testutil.Fixture) (*Session, *countingRanker) {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	repo := sqlite.NewRepository(db.Conn())
	if len(fixtures) > 0 {
		testutil.Seed(t, repo, fixtures)
	}

	ranker := &countingRanker{
		Ranker: ranking.NewRanker(repo, nil, ranking.Config{DefaultLimit: 10}, logger.NewNop()),
	}
	return New(repo, ranker, logger.NewNop()), ranker
}

func TestSession_ReadCompany_PE(t *testing.T) {
	s, _ := newSession(t, []testutil.Fixture{
		testutil.NewFixture("AAA", "Alpha", "Tech", contracts.FinancialValues{
			NetProfit:   contracts.Float(100),
			MarketPrice: contracts.Float(200),
		}),
		testutil.NewFixture("BBB", "Beta", "Tech", contracts.FinancialValues{
			MarketPrice: contracts.Float(50),
		}),
	})
	ctx := context.Background()

	aaa, err := s.ReadCompany(ctx, Selection{Query: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, "AAA", aaa.Company.Ticker)
	require.NotNil(t, aaa.Ratios.PE)
	assert.Equal(t, 2.0, *aaa.Ratios.PE)

	bbb, err := s.ReadCompany(ctx, Selection{Query: "Beta"})
	require.NoError(t, err)
	assert.Nil(t, bbb.Ratios.PE)
}

func TestSession_ReadCompany_AllRatios(t *testing.T) {
	s, _ := newSession(t, testutil.Companies())

	got, err := s.ReadCompany(context.Background(), Selection{Query: "Alpha Corp"})
	require.NoError(t, err)

	want := map[string]float64{
		contracts.RatioPE:       10,
		contracts.RatioPS:       0.5,
		contracts.RatioPB:       0.25,
		contracts.RatioNDEBITDA: 2,
		contracts.RatioROE:      0.12,
		contracts.RatioROA:      0.02,
		contracts.RatioLA:       0.8,
	}
	for _, r := range got.Ratios.Named() {
		require.NotNil(t, r.Value, r.Name)
		assert.Equal(t, want[r.Name], *r.Value, r.Name)
	}
}

func TestSession_Selection(t *testing.T) {
	s, _ := newSession(t, testutil.Companies())
	ctx := context.Background()

	// "Alpha" matches AAA and CCC, ordered by ticker
	got, err := s.ReadCompany(ctx, Selection{Query: "Alpha", Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "CCC", got.Company.Ticker)

	_, err = s.ReadCompany(ctx, Selection{Query: "Alpha", Index: 2})
	assert.ErrorIs(t, err, contracts.ErrInvalidSelection)
	assert.Equal(t, contracts.OutcomeInvalidSelection, contracts.Classify(err))

	_, err = s.ReadCompany(ctx, Selection{Query: "Alpha", Index: -1})
	assert.ErrorIs(t, err, contracts.ErrInvalidSelection)

	_, err = s.ReadCompany(ctx, Selection{Query: "Omega"})
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	assert.Equal(t, contracts.OutcomeNotFound, contracts.Classify(err))
}

func TestSession_CreateCompany(t *testing.T) {
	s, ranker := newSession(t, testutil.Companies())
	ctx := context.Background()

	params, err := CreateInput{
		Ticker: "MOON",
		Name:   "Moon Corp",
		Sector: "Technology",
		Financial: FinancialInput{
			NetProfit:   "10",
			MarketPrice: "987654321",
			Equity:      "40",
		},
	}.Parse()
	require.NoError(t, err)

	created, err := s.CreateCompany(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "MOON", created.Company.Ticker)
	require.NotNil(t, created.Ratios.ROE)
	assert.Equal(t, 0.25, *created.Ratios.ROE)
	assert.Nil(t, created.Ratios.PS)
	assert.Equal(t, 1, ranker.invalidations)

	read, err := s.ReportByTicker(ctx, "MOON")
	require.NoError(t, err)
	assert.Equal(t, created.Ratios, read.Ratios)

	_, err = s.CreateCompany(ctx, params)
	assert.ErrorIs(t, err, contracts.ErrIntegrity)
	assert.Equal(t, 1, ranker.invalidations, "failed write must not invalidate")
}

func TestSession_UpdateCompany(t *testing.T) {
	s, ranker := newSession(t, testutil.Companies())
	ctx := context.Background()

	values := contracts.FinancialValues{
		NetProfit: contracts.Float(1),
		Equity:    contracts.Float(8),
	}
	got, err := s.UpdateCompany(ctx, Selection{Query: "Beta"}, values)
	require.NoError(t, err)

	assert.Equal(t, "BBB", got.Company.Ticker)
	require.NotNil(t, got.Ratios.ROE)
	assert.Equal(t, 0.12, *got.Ratios.ROE)
	assert.Nil(t, got.Ratios.PE, "replaced snapshot has no market price")
	assert.Equal(t, 1, ranker.invalidations)

	_, err = s.UpdateByTicker(ctx, "ZZZ", values)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestSession_DeleteCompany(t *testing.T) {
	s, ranker := newSession(t, testutil.Companies())
	ctx := context.Background()

	deleted, err := s.DeleteCompany(ctx, Selection{Query: "Gamma"})
	require.NoError(t, err)
	assert.Equal(t, "CCC", deleted.Ticker)
	assert.Equal(t, 1, ranker.invalidations)

	companies, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	_, err = s.DeleteByTicker(ctx, "CCC")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestSession_Rank(t *testing.T) {
	s, _ := newSession(t, testutil.Companies())
	ctx := context.Background()

	got, err := s.Rank(ctx, contracts.MetricNDEBITDA, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "AAA", got.Items[0].Ticker)

	_, err = s.Rank(ctx, contracts.Metric("EPS"), 1)
	assert.Equal(t, contracts.OutcomeUnknownMetric, contracts.Classify(err))
}

func TestSession_Bootstrap(t *testing.T) {
	s, _ := newSession(t, nil)
	ctx := context.Background()

	empty, err := s.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	companies, financials := testutil.Split(testutil.Companies())
	batch := &loader.Batch{Companies: companies, Financials: financials}

	n, err := s.Bootstrap(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// Second load collides on every ticker and is rolled back
	_, err = s.Bootstrap(ctx, batch)
	assert.ErrorIs(t, err, contracts.ErrIntegrity)

	list, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
