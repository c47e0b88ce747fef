package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/investor/internal/api/handlers"
	"github.com/wonny/investor/pkg/config"
	"github.com/wonny/investor/pkg/logger"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Health  *handlers.HealthHandler
	Company *handlers.CompanyHandler
	Ranking *handlers.RankingHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are declared in this function only
func NewRouter(h Handlers, limits config.APIConfig, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Company endpoints (search before {ticker})
	api.HandleFunc("/companies", h.Company.List).Methods("GET")
	api.HandleFunc("/companies", h.Company.Create).Methods("POST")
	api.HandleFunc("/companies/search", h.Company.Search).Methods("GET")
	api.HandleFunc("/companies/{ticker}", h.Company.Get).Methods("GET")
	api.HandleFunc("/companies/{ticker}", h.Company.Delete).Methods("DELETE")
	api.HandleFunc("/companies/{ticker}/financial", h.Company.UpdateFinancial).Methods("PUT")

	// Ranking endpoints
	api.HandleFunc("/rankings", h.Ranking.Metrics).Methods("GET")
	api.HandleFunc("/rankings/{metric}", h.Ranking.GetRanking).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	api.Use(rateLimitMiddleware(limits, log))

	return r
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(rec, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies one token bucket to every API request.
// A non-positive rate disables limiting.
func rateLimitMiddleware(limits config.APIConfig, log *logger.Logger) mux.MiddlewareFunc {
	if limits.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := limits.RateBurst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limits.RateLimit), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.WithField("path", r.URL.Path).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
