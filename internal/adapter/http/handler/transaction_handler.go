package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// TransactionHandler handles ledger transaction and expense requests.
type TransactionHandler struct {
	ledgerUseCase *usecase.LedgerUseCase
	expenseRepo   usecase.ExpenseRepository
	logger        zerolog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUseCase *usecase.LedgerUseCase, expenseRepo usecase.ExpenseRepository, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledgerUseCase: ledgerUseCase,
		expenseRepo:   expenseRepo,
		logger:        logger,
	}
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	txn, err := h.ledgerUseCase.CreateTransaction(r.Context(), p, input)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", input.AccountID).Msg("failed to create transaction")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// RecordExpense handles POST /expenses.
func (h *TransactionHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.RecordExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.ledgerUseCase.RecordExpense(r.Context(), p, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordExpenseFromResult(result))
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.ledgerUseCase.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.TransactionFilter{
		AccountID: r.URL.Query().Get("account_id"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := domain.TransactionType(raw)
		filter.Type = &typ
	}
	if raw := r.URL.Query().Get("approval_status"); raw != "" {
		status := domain.ApprovalStatus(raw)
		filter.ApprovalStatus = &status
	}
	if from, ok := parseTimeQuery(r, "from"); ok {
		filter.DateFrom = &from
	}
	if to, ok := parseTimeQuery(r, "to"); ok {
		filter.DateTo = &to
	}

	transactions, err := h.ledgerUseCase.GetTransactions(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list transactions")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListFromDomain(transactions))
}

// ListCategories handles GET /expenses/categories.
func (h *TransactionHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.expenseRepo.ListCategories(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryListFromDomain(categories))
}

func parseTimeQuery(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
