package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	n := 0
	ledger := services.NewLedger(memory.NewStore(),
		services.WithClock(func() time.Time { return time.Date(2025, 4, 21, 10, 0, 0, 0, time.UTC) }),
		services.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		services.WithLogger(applog.Discard()),
	)
	return NewServer(":0", ledger, applog.Discard(), true)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
		if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Fatalf("%s missing security headers, got %q", path, got)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodGet, "/api/banks", "")

	rr := do(t, srv, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "financas_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestExpensePaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/banks", `{"name":"Nubank","balance":"1000","isPrincipal":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add bank status=%d body=%s", rr.Code, rr.Body.String())
	}
	var bank core.Bank
	if err := json.Unmarshal(rr.Body.Bytes(), &bank); err != nil {
		t.Fatalf("decode bank: %v", err)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-04-10","description":"Conta de luz","category":"Luz","amount":"150.50"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add expense status=%d body=%s", rr.Code, rr.Body.String())
	}
	var expense core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &expense); err != nil {
		t.Fatalf("decode expense: %v", err)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses/"+expense.ID+"/pay", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("pay status=%d body=%s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &expense); err != nil {
		t.Fatalf("decode paid expense: %v", err)
	}
	if !expense.IsPaid || expense.PaidDate == nil || expense.PaidDate.String() != "2025-04-21" {
		t.Fatalf("expense not marked paid today: %+v", expense)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses/"+expense.ID+"/pay", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second pay status=%d", rr.Code)
	}
	if e := decodeError(t, rr); e.Kind != "not_found" || e.Message != "Registro já está pago" {
		t.Fatalf("second pay error=%+v", e)
	}

	rr = do(t, srv, http.MethodGet, "/api/banks", "")
	var banks []core.Bank
	if err := json.Unmarshal(rr.Body.Bytes(), &banks); err != nil {
		t.Fatalf("decode banks: %v", err)
	}
	if len(banks) != 1 || !banks[0].Balance.Equal(decimal.RequireFromString("849.50")) {
		t.Fatalf("balance after pay=%v", banks)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses/"+expense.ID+"/revert", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("revert status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPayWithoutFundsConflicts(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/banks", `{"name":"Caixa","balance":"10","isPrincipal":true}`)
	rr := do(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-04-10","description":"Aluguel","category":"Aluguel","amount":"1200"}`)
	var expense core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &expense); err != nil {
		t.Fatalf("decode expense: %v", err)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses/"+expense.ID+"/pay", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("status=%d", rr.Code)
	}
	if e := decodeError(t, rr); e.Kind != "insufficient_funds" {
		t.Fatalf("kind=%q", e.Kind)
	}
}

func TestPayTaxWithoutPrincipalConflicts(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/taxes",
		`{"type":"DAS","date":"2025-04-20","amount":"70.60","description":"DAS abril"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add tax status=%d body=%s", rr.Code, rr.Body.String())
	}
	var tax core.Tax
	if err := json.Unmarshal(rr.Body.Bytes(), &tax); err != nil {
		t.Fatalf("decode tax: %v", err)
	}

	rr = do(t, srv, http.MethodPost, "/api/taxes/"+tax.ID+"/pay", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("status=%d", rr.Code)
	}
	if e := decodeError(t, rr); e.Kind != "no_principal_account" {
		t.Fatalf("kind=%q", e.Kind)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"malformed json", http.MethodPost, "/api/banks", `{"name":`, "body"},
		{"trailing data", http.MethodPost, "/api/banks", `{"name":"A","balance":"1"} {}`, "body"},
		{"missing balance", http.MethodPost, "/api/banks", `{"name":"A"}`, "balance"},
		{"bad category", http.MethodPost, "/api/expenses", `{"date":"2025-04-01","description":"x","category":"Cinema","amount":"5"}`, "category"},
		{"bad movement type", http.MethodPost, "/api/movements", `{"date":"2025-04-01","description":"x","amount":"5","type":"swap","bankId":"b"}`, "type"},
		{"bad year", http.MethodGet, "/api/expenses?year=abc", "", "year"},
		{"bad available", http.MethodGet, "/api/suggestions?available=lots", "", "available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
			e := decodeError(t, rr)
			if e.Kind != "validation" {
				t.Fatalf("kind=%q", e.Kind)
			}
			found := false
			for _, f := range e.Fields {
				if f == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("fields=%v, want %q", e.Fields, tt.field)
			}
		})
	}
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/banks/x", "/api/expenses/x", "/api/movements/x", "/api/investments/x", "/api/taxes/x"} {
		rr := do(t, srv, http.MethodDelete, path, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("DELETE %s status=%d", path, rr.Code)
		}
	}
}

func TestSuggestionsFromQuery(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/suggestions?available=1000", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var s core.Suggestions
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 21 April leaves 10 days including today.
	if s.RemainingDays != 10 || !s.Daily.Equal(decimal.NewFromInt(80)) || !s.Weekly.Equal(decimal.NewFromInt(560)) {
		t.Fatalf("suggestions=%+v", s)
	}
}

func TestExpensesByPeriodAndOverview(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/banks", `{"name":"Itaú","balance":"500","isPrincipal":true}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"date":"2025-03-05","description":"Mercado","category":"Mercado","amount":"100"}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"date":"2025-04-05","description":"Internet","category":"Internet","amount":"120"}`)

	rr := do(t, srv, http.MethodGet, "/api/expenses?year=2025&month=4", "")
	var expenses []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "Internet" {
		t.Fatalf("april expenses=%+v", expenses)
	}

	rr = do(t, srv, http.MethodGet, "/api/overview", "")
	var ov core.Overview
	if err := json.Unmarshal(rr.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if !ov.Summary.Available.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("available=%s", ov.Summary.Available)
	}
	if len(ov.ByCategory) != 2 || ov.ByCategory[0].Name != "Internet" {
		t.Fatalf("byCategory=%+v", ov.ByCategory)
	}
}

func TestResetAndSelfTest(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/banks", `{"name":"Nubank","balance":"1"}`)

	rr := do(t, srv, http.MethodPost, "/api/maintenance/reset", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("reset status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodGet, "/api/banks", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("banks after reset=%s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, "/api/maintenance/self-test", "")
	var report services.SelfTestReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.BankDeleted || !report.ExpenseDeleted {
		t.Fatalf("report=%+v", report)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
