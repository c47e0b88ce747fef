package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/session"
	"github.com/wonny/investor/pkg/logger"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// CompanyHandler handles company CRUD endpoints
// ⭐ SSOT: company API handlers live in this struct only
type CompanyHandler struct {
	session *session.Session
	logger  *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(s *session.Session, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		session: s,
		logger:  log,
	}
}

// List returns every company ordered by ticker
// GET /api/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.session.ListCompanies(r.Context())
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}

// Search returns the companies whose name contains the query, with selection indices
// GET /api/companies/search?name=Q
func (h *CompanyHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("name")

	matches, err := h.session.Search(r.Context(), query)
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	type match struct {
		Index   int               `json:"index"`
		Company contracts.Company `json:"company"`
	}
	items := make([]match, 0, len(matches))
	for i, c := range matches {
		items = append(items, match{Index: i, Company: c})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"matches": items,
	})
}

// Get returns the company report (identity and ratios)
// GET /api/companies/{ticker}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.session.ReportByTicker(r.Context(), mux.Vars(r)["ticker"])
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Create adds a company with its snapshot
// POST /api/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in session.CreateInput
	if err := decodeBody(w, r, &in); err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	params, err := in.Parse()
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	report, err := h.session.CreateCompany(r.Context(), params)
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

// UpdateFinancial replaces the company's snapshot
// PUT /api/companies/{ticker}/financial
func (h *CompanyHandler) UpdateFinancial(w http.ResponseWriter, r *http.Request) {
	var in session.FinancialInput
	if err := decodeBody(w, r, &in); err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	values, err := in.Parse()
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	report, err := h.session.UpdateByTicker(r.Context(), mux.Vars(r)["ticker"], values)
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Delete removes the company and its snapshot
// DELETE /api/companies/{ticker}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	company, err := h.session.DeleteByTicker(r.Context(), mux.Vars(r)["ticker"])
	if err != nil {
		respondUseCaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": company,
	})
}

// decodeBody decodes a JSON body; malformed JSON is a parse error
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: request body: %v", contracts.ErrParse, err)
	}
	return nil
}
