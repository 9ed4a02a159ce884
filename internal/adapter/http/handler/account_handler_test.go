package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/dto"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/handler"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/middleware"
	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase/mocks"
)

type accountHandlerFixture struct {
	accounts *mocks.MockAccountRepository
	handler  *handler.AccountHandler
}

func newAccountHandlerFixture() *accountHandlerFixture {
	accounts := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(),
		accounts,
		mocks.NewMockTransactionRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		mocks.NoopRetrier{},
		nil,
	)
	return &accountHandlerFixture{
		accounts: accounts,
		handler:  handler.NewAccountHandler(uc, zerolog.Nop()),
	}
}

func asPrincipal(r *http.Request, p domain.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.PrincipalContextKey, p)
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountHandlerCreate(t *testing.T) {
	manager := domain.Principal{ID: "manager-1", Role: domain.RoleManager}

	t.Run("creates account", func(t *testing.T) {
		f := newAccountHandlerFixture()

		body := `{"name":"Front Desk Float","assignee_user_id":"cashier-1","opening_balance":"500.00"}`
		req := asPrincipal(httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body)), manager)
		rr := httptest.NewRecorder()

		f.handler.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.AccountResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, "Front Desk Float", resp.Name)
		require.Equal(t, "500", resp.CurrentBalance)
		require.Equal(t, "manager-1", resp.OwnerID)
	})

	t.Run("invalid amount maps to 400", func(t *testing.T) {
		f := newAccountHandlerFixture()

		body := `{"name":"Float","assignee_user_id":"cashier-1","opening_balance":"not-a-number"}`
		req := asPrincipal(httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body)), manager)
		rr := httptest.NewRecorder()

		f.handler.Create(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing assignee maps to 400", func(t *testing.T) {
		f := newAccountHandlerFixture()

		body := `{"name":"Float","opening_balance":"100"}`
		req := asPrincipal(httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body)), manager)
		rr := httptest.NewRecorder()

		f.handler.Create(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, "validation_error", resp.Error)
	})

	t.Run("missing principal maps to 401", func(t *testing.T) {
		f := newAccountHandlerFixture()

		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		f.handler.Create(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAccountHandlerGet(t *testing.T) {
	t.Run("unknown account maps to 404", func(t *testing.T) {
		f := newAccountHandlerFixture()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/nope", nil), "id", "nope")
		rr := httptest.NewRecorder()

		f.handler.Get(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("returns the account", func(t *testing.T) {
		f := newAccountHandlerFixture()
		f.accounts.Accounts["acc-1"] = &domain.Account{
			ID:             "acc-1",
			Name:           "Front Desk Float",
			Status:         domain.AccountStatusActive,
			CurrentBalance: decimal.NewFromInt(120),
		}

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "id", "acc-1")
		rr := httptest.NewRecorder()

		f.handler.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AccountResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, "acc-1", resp.ID)
		require.Equal(t, "120", resp.CurrentBalance)
	})
}

func TestAccountHandlerClose(t *testing.T) {
	manager := domain.Principal{ID: "manager-1", Role: domain.RoleManager}

	f := newAccountHandlerFixture()
	f.accounts.Accounts["acc-1"] = &domain.Account{
		ID:      "acc-1",
		Name:    "Float",
		Status:  domain.AccountStatusClosed,
		OwnerID: "manager-1",
	}

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/close", strings.NewReader(`{"reason":"done"}`)), "id", "acc-1")
	req = asPrincipal(req, manager)
	rr := httptest.NewRecorder()

	f.handler.Close(rr, req)

	// Closing a closed account is an illegal state transition.
	require.Equal(t, http.StatusConflict, rr.Code)
}
