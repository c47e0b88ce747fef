package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investor/internal/api/handlers"
	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/ranking"
	"github.com/wonny/investor/internal/scheduler"
	"github.com/wonny/investor/internal/session"
	"github.com/wonny/investor/internal/store/sqlite"
	"github.com/wonny/investor/internal/testutil"
	"github.com/wonny/investor/pkg/config"
	"github.com/wonny/investor/pkg/logger"
)

func newTestRouter(t *testing.T, limits config.APIConfig) http.Handler {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	repo := sqlite.NewRepository(db.Conn())
	testutil.Seed(t, repo, testutil.Companies())

	log := logger.NewNop()
	ranker := ranking.NewRanker(repo, nil, ranking.Config{DefaultLimit: 10}, log)
	s := session.New(repo, ranker, log)

	return NewRouter(Handlers{
		Health:  handlers.NewHealthHandler(db, log),
		Company: handlers.NewCompanyHandler(s, log),
		Ranking: handlers.NewRankingHandler(s, log),
	}, limits, log)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.NotNil(t, body["database"])
}

type stubJobs map[string]scheduler.JobStats

func (s stubJobs) GetJobStats() map[string]scheduler.JobStats { return s }

func TestHealth_JobStats(t *testing.T) {
	log := logger.NewNop()
	health := handlers.NewHealthHandler(nil, log).WithJobs(stubJobs{
		"rank_refresh": {JobName: "rank_refresh", Schedule: "0 0 * * * *", TotalRuns: 4, SuccessCount: 3, FailureCount: 1, SuccessRate: 0.75},
	})
	router := NewRouter(Handlers{Health: health}, config.APIConfig{}, log)

	rec := do(t, router, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string                        `json:"status"`
		Jobs   map[string]scheduler.JobStats `json:"jobs"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	require.Contains(t, body.Jobs, "rank_refresh")
	assert.Equal(t, 4, body.Jobs["rank_refresh"].TotalRuns)
	assert.Equal(t, 1, body.Jobs["rank_refresh"].FailureCount)
	assert.InDelta(t, 0.75, body.Jobs["rank_refresh"].SuccessRate, 1e-9)
}

func TestHealth_NoJobsWithoutScheduler(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/health", "")
	var body map[string]interface{}
	decode(t, rec, &body)
	assert.NotContains(t, body, "jobs")
}

func TestListCompanies(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/api/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Companies []contracts.Company `json:"companies"`
		Count     int                 `json:"count"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "AAA", body.Companies[0].Ticker)
}

func TestSearchCompanies(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/api/companies/search?name=Alpha", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Matches []struct {
			Index   int               `json:"index"`
			Company contracts.Company `json:"company"`
		} `json:"matches"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Matches, 2)
	assert.Equal(t, 1, body.Matches[1].Index)
	assert.Equal(t, "CCC", body.Matches[1].Company.Ticker)

	rec = do(t, router, "GET", "/api/companies/search?name=Omega", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCompany(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/api/companies/AAA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report contracts.CompanyReport
	decode(t, rec, &report)
	assert.Equal(t, "Alpha Corp", report.Company.Name)
	require.NotNil(t, report.Ratios.PE)
	assert.Equal(t, 10.0, *report.Ratios.PE)

	rec = do(t, router, "GET", "/api/companies/ZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCompany(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	body := `{"ticker":"MOON","name":"Moon Corp","sector":"Technology",
		"financial":{"net_profit":"100","market_price":"200"}}`

	rec := do(t, router, "POST", "/api/companies", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var report contracts.CompanyReport
	decode(t, rec, &report)
	require.NotNil(t, report.Ratios.PE)
	assert.Equal(t, 2.0, *report.Ratios.PE)

	// Duplicate ticker
	rec = do(t, router, "POST", "/api/companies", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Non-numeric figure is rejected before any write
	rec = do(t, router, "POST", "/api/companies", `{"ticker":"SUN","financial":{"sales":"lots"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, router, "GET", "/api/companies/SUN", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed JSON
	rec = do(t, router, "POST", "/api/companies", `{"ticker":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFinancial(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "PUT", "/api/companies/BBB/financial", `{"net_profit":"1","equity":"8"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report contracts.CompanyReport
	decode(t, rec, &report)
	require.NotNil(t, report.Ratios.ROE)
	assert.Equal(t, 0.12, *report.Ratios.ROE)

	rec = do(t, router, "PUT", "/api/companies/ZZZ/financial", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCompany(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "DELETE", "/api/companies/AAA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, "DELETE", "/api/companies/AAA", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRanking(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{})

	rec := do(t, router, "GET", "/api/rankings/roa?n=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ranking contracts.Ranking
	decode(t, rec, &ranking)
	assert.Equal(t, contracts.MetricROA, ranking.Metric)
	require.Len(t, ranking.Items, 2)
	assert.Equal(t, "BBB", ranking.Items[0].Ticker)
	assert.Equal(t, "CCC", ranking.Items[1].Ticker)

	rec = do(t, router, "GET", "/api/rankings/nd-ebitda", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &ranking)
	assert.Equal(t, 10, ranking.Limit)

	rec = do(t, router, "GET", "/api/rankings/eps", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, "GET", "/api/rankings/roe?n=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, "GET", "/api/rankings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, config.APIConfig{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, router, "GET", "/api/companies", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, "GET", "/api/companies", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, router, "GET", "/api/companies", "").Code)

	// Health is outside the API subrouter
	assert.Equal(t, http.StatusOK, do(t, router, "GET", "/health", "").Code)
}

func TestRecovery(t *testing.T) {
	h := recoveryMiddleware(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, "GET", "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New("0", logger.NewNop(), http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
