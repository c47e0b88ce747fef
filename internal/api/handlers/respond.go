package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps a use case outcome to an HTTP status
func statusFor(outcome contracts.Outcome) int {
	switch outcome {
	case contracts.OutcomeSuccess:
		return http.StatusOK
	case contracts.OutcomeNotFound:
		return http.StatusNotFound
	case contracts.OutcomeIntegrity:
		return http.StatusConflict
	case contracts.OutcomeParse, contracts.OutcomeInvalidSelection, contracts.OutcomeUnknownMetric:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondUseCaseError writes err with the status of its outcome.
// Unexpected errors are logged and hidden from the client.
func respondUseCaseError(w http.ResponseWriter, log *logger.Logger, err error) {
	outcome := contracts.Classify(err)
	status := statusFor(outcome)

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		respondError(w, status, "Internal server error")
		return
	}

	respondJSON(w, status, map[string]string{
		"error":   err.Error(),
		"outcome": string(outcome),
	})
}
