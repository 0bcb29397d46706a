package router_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/observability"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

const (
	channelID  = "mobile"
	channelKey = "secret"
)

func newTestHandler(t *testing.T, rateLimit int) http.Handler {
	t.Helper()

	store := memory.NewStore()
	cards := memory.NewCreditCardRepository()
	loans := memory.NewLoanRepository()
	directory := memory.NewCustomerDirectory()
	processor := services.NewMovementProcessor(store)

	return router.New(router.Options{
		Accounts:           controller.NewAccountController(services.NewAccountService(store, store, directory, services.NewAccountRules(store), processor, nil)),
		CreditCards:        controller.NewCreditCardController(services.NewCreditCardService(cards)),
		Loans:              controller.NewLoanController(services.NewLoanService(loans, directory)),
		Reports:            controller.NewReportController(services.NewReportService(store, store, cards, loans, nil, nil, nil)),
		AuthMiddleware:     middleware.BasicAuth(channelID, channelKey),
		Metrics:            observability.NewMetrics(),
		RateLimitPerMinute: rateLimit,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string, auth bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.SetBasicAuth(channelID, channelKey)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	}
	return rec, payload
}

func TestRouterPublicRoutes(t *testing.T) {
	h := newTestHandler(t, 0)

	rec, payload := do(t, h, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec, _ = do(t, h, http.MethodGet, "/swagger/openapi.json", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts_http_requests_total")
}

func TestRouterRequiresBasicAuth(t *testing.T) {
	h := newTestHandler(t, 0)

	rec, _ := do(t, h, http.MethodGet, "/accounts", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/accounts", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAccountFlow(t *testing.T) {
	h := newTestHandler(t, 0)

	rec, payload := do(t, h, http.MethodPost, "/accounts",
		`{"customerId":"c-personal-001","type":"SAVINGS","holders":["c-personal-001"],"openingBalance":"100.00"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := payload["data"].(map[string]any)
	id := data["id"].(string)
	assert.Equal(t, "100.00", data["balance"])

	rec, payload = do(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/deposit", id), `{"amount":"25.50","reference":"cash"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "DEPOSIT", payload["data"].(map[string]any)["type"])

	rec, payload = do(t, h, http.MethodPost, fmt.Sprintf("/accounts/%s/withdraw", id), `{"amount":"500"}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", payload["code"])
	assert.Equal(t, false, payload["success"])

	rec, payload = do(t, h, http.MethodGet, fmt.Sprintf("/accounts/%s/balance", id), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "125.50", payload["data"].(map[string]any)["balance"])

	rec, payload = do(t, h, http.MethodGet, fmt.Sprintf("/accounts/%s/movements?from=2000-01-01&to=2999-12-31", id), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["data"], 2)

	rec, _ = do(t, h, http.MethodPost, "/accounts",
		`{"customerId":"c-personal-001","type":"SAVINGS","holders":["c-personal-001"]}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/accounts/"+id, "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, payload = do(t, h, http.MethodGet, "/accounts/"+id, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", payload["code"])
}

func TestRouterRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t, 0)

	rec, payload := do(t, h, http.MethodPost, "/accounts", `{"customerId":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", payload["message"])

	rec, _ = do(t, h, http.MethodPost, "/loans", `{"customerId":"c-personal-001","type":"PERSONAL","principal":"0","interestRateAnnual":"0.1","termMonths":12}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterReports(t *testing.T) {
	h := newTestHandler(t, 0)

	rec, payload := do(t, h, http.MethodGet, "/reports/customers/c-personal-001/daily-averages/current-month", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "c-personal-001", payload["data"].(map[string]any)["customerId"])

	rec, _ = do(t, h, http.MethodGet, "/reports/commissions?from=2026-03-01&to=2026-03-31", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/reports/commissions?from=2026-03-31&to=2026-03-01", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterRateLimit(t *testing.T) {
	h := newTestHandler(t, 2)

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodGet, "/health", "", false)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := do(t, h, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
