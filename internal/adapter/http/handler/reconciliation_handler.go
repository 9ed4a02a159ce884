package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ReconciliationHandler handles cash-count reconciliation requests.
type ReconciliationHandler struct {
	reconciliationUseCase *usecase.ReconciliationUseCase
	logger                zerolog.Logger
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUseCase *usecase.ReconciliationUseCase, logger zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationUseCase: reconciliationUseCase,
		logger:                logger,
	}
}

// Create handles POST /reconciliations.
func (h *ReconciliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateReconciliationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.reconciliationUseCase.CreateReconciliation(r.Context(), p, input)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", input.AccountID).Msg("reconciliation failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReconciliationFromResult(result))
}

// Get handles GET /reconciliations/{id}.
func (h *ReconciliationHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reconciliationUseCase.GetReconciliation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromDomain(rec))
}

// List handles GET /reconciliations?account_id=.
func (h *ReconciliationHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "account_id is required")
		return
	}

	recs, err := h.reconciliationUseCase.ListReconciliations(r.Context(), accountID,
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationListFromDomain(recs))
}
