package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ApprovalHandler handles transaction sign-off requests.
type ApprovalHandler struct {
	approvalUseCase *usecase.ApprovalUseCase
	logger          zerolog.Logger
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalUseCase *usecase.ApprovalUseCase, logger zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUseCase: approvalUseCase,
		logger:          logger,
	}
}

// ListPending handles GET /transactions/pending.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	transactions, err := h.approvalUseCase.GetPendingApprovals(r.Context(), p,
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListFromDomain(transactions))
}

// Approve handles POST /transactions/{id}/approve.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ApproveTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.approvalUseCase.ApproveTransaction(r.Context(), p, chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		h.logger.Error().Err(err).Str("transaction_id", chi.URLParam(r, "id")).Msg("approval failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Reject handles POST /transactions/{id}/reject.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.RejectTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.approvalUseCase.RejectTransaction(r.Context(), p, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
