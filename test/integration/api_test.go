package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/coin-change/internal/api"
	"github.com/eugenenazirov/coin-change/internal/change"
	"github.com/eugenenazirov/coin-change/internal/compare"
	"github.com/eugenenazirov/coin-change/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zaptest.NewLogger(t)
	greedy := change.NewGreedySolver()
	minCoins := change.NewMinCoinSolver()
	comparator := compare.New(greedy, minCoins, compare.WithLogger(logger))
	handler := api.NewHandler(greedy, minCoins, comparator, storage.NewMemoryStorage())
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	calcPayload := map[string]any{"amount": 123456}
	body, _ := json.Marshal(calcPayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/compare", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from compare, got %d", rec.Code)
	}

	var report compare.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Greedy.Result.Breakdown.Total() != 123456 || report.MinCoins.Result.Breakdown.Total() != 123456 {
		t.Fatalf("unexpected totals: greedy %d, min-coins %d",
			report.Greedy.Result.Breakdown.Total(), report.MinCoins.Result.Breakdown.Total())
	}

	updatePayload := map[string]any{"denominations": []int{30, 20, 5}}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/denominations", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from denominations update, got %d", rec.Code)
	}

	body, _ = json.Marshal(map[string]any{"amount": 40})
	rec = performRequest(t, handler, http.MethodPost, "/api/change/greedy", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from greedy, got %d", rec.Code)
	}
	var greedy struct {
		Coins int `json:"coins"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&greedy); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/change/min-coins", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from min-coins, got %d", rec.Code)
	}
	var minCoins struct {
		Coins int `json:"coins"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&minCoins); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if greedy.Coins != 3 || minCoins.Coins != 2 {
		t.Fatalf("expected greedy 3 coins and min-coins 2, got %d and %d", greedy.Coins, minCoins.Coins)
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/canonical", nil, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from canonical, got %d", rec.Code)
	}
	var canonical change.CanonicalReport
	if err := json.NewDecoder(rec.Body).Decode(&canonical); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if canonical.Canonical || canonical.Counterexample.Amount != 40 {
		t.Fatalf("expected counterexample at 40, got %+v", canonical)
	}
}
