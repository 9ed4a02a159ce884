package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// AccountHandler handles petty-cash account requests.
type AccountHandler struct {
	accountUseCase *usecase.AccountUseCase
	logger         zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUseCase *usecase.AccountUseCase, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accountUseCase.CreateAccount(r.Context(), p, input)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create account")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get handles GET /accounts/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUseCase.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetMine handles GET /accounts/me, resolving the caller's assigned account.
func (h *AccountHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	account, err := h.accountUseCase.GetAccountForPrincipal(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List handles GET /accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	filter := usecase.AccountFilter{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.AccountStatus(raw)
		filter.Status = &status
	}

	accounts, err := h.accountUseCase.ListAccounts(r.Context(), p, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list accounts")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountListFromDomain(accounts))
}

// Update handles PATCH /accounts/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accountUseCase.UpdateAccount(r.Context(), p, chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Suspend handles POST /accounts/{id}/suspend.
func (h *AccountHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.accountUseCase.SuspendAccount)
}

// Close handles POST /accounts/{id}/close.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.accountUseCase.CloseAccount)
}

func (h *AccountHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, p domain.Principal, id, reason string) (*domain.Account, error),
) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := op(r.Context(), p, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
