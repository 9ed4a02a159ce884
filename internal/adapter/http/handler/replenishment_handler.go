package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ReplenishmentHandler handles replenishment workflow requests.
type ReplenishmentHandler struct {
	replenishmentUseCase *usecase.ReplenishmentUseCase
	logger               zerolog.Logger
}

// NewReplenishmentHandler creates a new ReplenishmentHandler.
func NewReplenishmentHandler(replenishmentUseCase *usecase.ReplenishmentUseCase, logger zerolog.Logger) *ReplenishmentHandler {
	return &ReplenishmentHandler{
		replenishmentUseCase: replenishmentUseCase,
		logger:               logger,
	}
}

// Request handles POST /replenishments.
func (h *ReplenishmentHandler) Request(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.RequestReplenishmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	repl, err := h.replenishmentUseCase.RequestReplenishment(r.Context(), p, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReplenishmentFromDomain(repl))
}

// Approve handles POST /replenishments/{id}/approve. Approval is a pure
// state change; no money moves until disbursement.
func (h *ReplenishmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ApproveReplenishmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var approvedAmount *decimal.Decimal
	if req.ApprovedAmount != nil {
		d, err := decimal.NewFromString(*req.ApprovedAmount)
		if err != nil {
			writeDomainError(w, domain.ErrInvalidAmount)
			return
		}
		approvedAmount = &d
	}

	repl, err := h.replenishmentUseCase.ApproveReplenishment(r.Context(), p, chi.URLParam(r, "id"), approvedAmount, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReplenishmentFromDomain(repl))
}

// Disburse handles POST /replenishments/{id}/disburse.
func (h *ReplenishmentHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.DisburseReplenishmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.replenishmentUseCase.DisburseReplenishment(r.Context(), p, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		h.logger.Error().Err(err).Str("replenishment_id", chi.URLParam(r, "id")).Msg("disbursement failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DisburseFromResult(result))
}

// Reject handles POST /replenishments/{id}/reject.
func (h *ReplenishmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.RejectReplenishmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	repl, err := h.replenishmentUseCase.RejectReplenishment(r.Context(), p, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReplenishmentFromDomain(repl))
}

// Get handles GET /replenishments/{id}.
func (h *ReplenishmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	repl, err := h.replenishmentUseCase.GetReplenishment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReplenishmentFromDomain(repl))
}

// List handles GET /replenishments. With pending=true it returns the
// approval queue, otherwise account_id scopes the listing.
func (h *ReplenishmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	if r.URL.Query().Get("pending") == "true" {
		repls, err := h.replenishmentUseCase.ListPendingReplenishments(r.Context(), limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.ReplenishmentListFromDomain(repls))
		return
	}

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "account_id is required")
		return
	}

	repls, err := h.replenishmentUseCase.ListReplenishments(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReplenishmentListFromDomain(repls))
}
