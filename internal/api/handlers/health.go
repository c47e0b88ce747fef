package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/investor/internal/scheduler"
	"github.com/wonny/investor/pkg/database"
	"github.com/wonny/investor/pkg/logger"
)

// HealthChecker is implemented by both store connections
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// JobStatsSource reports background job statistics
type JobStatsSource interface {
	GetJobStats() map[string]scheduler.JobStats
}

// HealthHandler reports service, store and background job health
type HealthHandler struct {
	db     HealthChecker
	jobs   JobStatsSource
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(db HealthChecker, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: log,
	}
}

// WithJobs adds scheduled job statistics to the health report
func (h *HealthHandler) WithJobs(jobs JobStatsSource) *HealthHandler {
	h.jobs = jobs
	return h
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": "investor-api",
	}
	if h.jobs != nil {
		body["jobs"] = h.jobs.GetJobStats()
	}

	if h.db == nil {
		respondJSON(w, http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, err := h.db.HealthCheck(ctx)
	body["database"] = status
	if err != nil {
		h.logger.WithError(err).Warn("Database health check failed")
		body["status"] = "degraded"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	respondJSON(w, http.StatusOK, body)
}
