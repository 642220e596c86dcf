package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/state"
	"finanzas/internal/store/memory"
)

type fakeAdviser struct {
	reply   string
	isErr   bool
	categry string
}

func (f *fakeAdviser) Advise(_ context.Context, _ string, _ []core.Transaction, _ []core.Goal) (string, bool) {
	return f.reply, f.isErr
}

func (f *fakeAdviser) Categorize(_ context.Context, _ string) string {
	return f.categry
}

func newTestServer(t *testing.T) (*Server, *state.App) {
	t.Helper()
	app := state.New(memory.New())
	s := NewServer(":0", app, &fakeAdviser{reply: "ahorra más", categry: "Supermercado"})
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s, app
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func date(s string) core.Date {
	d, _ := core.ParseDate(s)
	return d
}

func seedMarch(t *testing.T, app *state.App) {
	t.Helper()
	ctx := context.Background()
	txs := []core.Transaction{
		{ID: "m1", Date: date("2024-03-05"), Description: "Salario", Amount: core.Money{Cents: 500000}, Category: "Ingresos", Type: core.TypeIncome, User: "Papá"},
		{ID: "m2", Date: date("2024-03-20"), Description: "Supermercado", Amount: core.Money{Cents: 4000}, Category: "Comestibles", Type: core.TypeVariable, User: "Mamá"},
	}
	for _, tx := range txs {
		if err := app.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestListTransactionsHalfFilter(t *testing.T) {
	s, app := newTestServer(t)
	seedMarch(t, app)

	rec := doJSON(t, s, http.MethodGet, "/api/transactions?month=2024-03&half=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var views []transactionView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 || views[0].ID != "m1" {
		t.Fatalf("expected only the day-5 transaction, got %+v", views)
	}
}

func TestListTransactionsRejectsBadSelectors(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{
		"/api/transactions?month=2024-13",
		"/api/transactions?half=3",
		"/api/transactions?type=weird",
	} {
		rec := doJSON(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestCreateTransactionAssignsID(t *testing.T) {
	s, app := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions",
		`{"date":"2024-03-05","description":"Cine","amount":40.00,"category":"Entretenimiento","type":"discretionary","user":"Papá"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var view transactionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if view.AmountCents != 4000 {
		t.Fatalf("expected 4000 cents, got %d", view.AmountCents)
	}
	if len(app.Transactions()) != 1 {
		t.Fatal("transaction not in state")
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"date":"garbage","description":"x","amount":1,"category":"c","type":"fixed"}`},
		{"negative amount", `{"date":"2024-03-05","description":"x","amount":-5,"category":"c","type":"fixed"}`},
		{"unknown type", `{"date":"2024-03-05","description":"x","amount":1,"category":"c","type":"weird"}`},
		{"empty description", `{"date":"2024-03-05","description":"","amount":1,"category":"c","type":"fixed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateAbsentTransaction(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/transactions/ghost",
		`{"date":"2024-03-05","description":"x","amount":1,"category":"c","type":"fixed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, app := newTestServer(t)
	seedMarch(t, app)

	rec := doJSON(t, s, http.MethodDelete, "/api/transactions/m1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/m1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestUpsertGoalReportsProgress(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/goals/g1",
		`{"name":"Vacaciones","target_amount":3000,"current_amount":1200,"deadline":"2024-06-01","icon":"🏖️"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var view goalView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ProgressPercent != 40 {
		t.Fatalf("expected 40%%, got %d", view.ProgressPercent)
	}

	// Over-contribution displays 100 but the stored value is untouched.
	rec = doJSON(t, s, http.MethodPut, "/api/goals/g1",
		`{"name":"Vacaciones","target_amount":2000,"current_amount":2500,"deadline":"2024-06-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ProgressPercent != 100 || view.CurrentCents != 250000 {
		t.Fatalf("expected clamped 100%% with intact amount, got %+v", view)
	}
}

func TestUpsertGoalRejectsZeroTarget(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/goals/g1",
		`{"name":"Vacaciones","target_amount":0,"deadline":"2024-06-01"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestDashboardSummary(t *testing.T) {
	s, app := newTestServer(t)
	seedMarch(t, app)

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard/summary?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var view summaryView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Income.Cents != 500000 || view.Expenses.Cents != 4000 || view.Balance.Cents != 496000 {
		t.Fatalf("unexpected summary: %+v", view)
	}
	if view.Rule.Needs.Target.Cents != 250000 {
		t.Fatalf("expected needs target of half income, got %d", view.Rule.Needs.Target.Cents)
	}
}

func TestDashboardSummaryCacheInvalidation(t *testing.T) {
	s, app := newTestServer(t)
	seedMarch(t, app)

	first := doJSON(t, s, http.MethodGet, "/api/dashboard/summary?month=2024-03", "")
	if first.Code != http.StatusOK {
		t.Fatalf("status %d", first.Code)
	}

	// Mutation must clear the cached aggregate.
	rec := doJSON(t, s, http.MethodPost, "/api/transactions",
		`{"date":"2024-03-21","description":"Gasolinera","amount":45,"category":"Transporte","type":"variable"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}

	second := doJSON(t, s, http.MethodGet, "/api/dashboard/summary?month=2024-03", "")
	var view summaryView
	if err := json.Unmarshal(second.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Expenses.Cents != 8500 {
		t.Fatalf("expected fresh expenses after mutation, got %d", view.Expenses.Cents)
	}
}

func TestAdvisorChatAppendsTranscript(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/chat", `{"query":"¿cómo voy?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "ahorra más" || resp.IsError {
		t.Fatalf("unexpected reply: %+v", resp)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/advisor/messages", "")
	var msgs []core.ChatMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "model" {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestAdvisorChatRejectsEmptyQuery(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/chat", `{"query":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAdvisorCategorize(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/categorize", `{"description":"Mercadona"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp categorizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Category != "Supermercado" {
		t.Fatalf("unexpected category: %q", resp.Category)
	}
}

func TestJarDeposit(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/jars/save/deposit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var jar jarView
	if err := json.Unmarshal(rec.Body.Bytes(), &jar); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if jar.Cents != 4600 {
		t.Fatalf("expected 4600 cents after deposit, got %d", jar.Cents)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/jars/piggy/deposit", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown jar: expected 404, got %d", rec.Code)
	}
}

func TestRateLimiterBlocksMutationBursts(t *testing.T) {
	s, _ := newTestServer(t)

	var last int
	for i := 0; i < 61; i++ {
		rec := doJSON(t, s, http.MethodPost, "/api/jars/save/deposit", "")
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}

	// Reads stay unthrottled.
	rec := doJSON(t, s, http.MethodGet, "/api/jars", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET should not be rate limited, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/goals", "")
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for k, want := range headers {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}
