package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/session"
	"github.com/wonny/investor/pkg/logger"
)

// RankingHandler handles ranking endpoints
// ⭐ SSOT: ranking API handlers live in this struct only
type RankingHandler struct {
	session *session.Session
	logger  *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(s *session.Session, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		session: s,
		logger:  log,
	}
}

// GetRanking returns the top companies by metric
// GET /api/rankings/{metric}?n=10   (metric: nd-ebitda, roe, roa)
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	metric, err := contracts.ParseMetric(mux.Vars(r)["metric"])
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	n := 0 // ranker default
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
	}

	ranking, err := h.session.Rank(r.Context(), metric, n)
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, ranking)
}

// Metrics lists the supported ranking metrics
// GET /api/rankings
func (h *RankingHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	type metricInfo struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	items := make([]metricInfo, 0, len(contracts.Metrics))
	for _, m := range contracts.Metrics {
		items = append(items, metricInfo{Name: string(m), Slug: m.Slug()})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": items,
	})
}
