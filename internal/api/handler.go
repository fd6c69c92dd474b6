package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coin-change/internal/cache"
	"github.com/eugenenazirov/coin-change/internal/change"
	"github.com/eugenenazirov/coin-change/internal/compare"
	"github.com/eugenenazirov/coin-change/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires solvers, the comparator, storage and cache into HTTP handlers.
type Handler struct {
	greedy     change.Solver
	minCoins   change.Solver
	comparator *compare.Comparator
	storage    storage.Storage
	cache      cache.Cache
	logger     *zap.Logger

	maxAmount        int
	canonicalWorkers int

	clock func() time.Time

	mu                     sync.RWMutex
	denominationsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithCache replaces the default in-memory report cache.
func WithCache(c cache.Cache) HandlerOption {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithHandlerLogger sets the logger used for cache failures.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMaxAmount bounds the range swept by the canonical check. Zero disables the bound.
func WithMaxAmount(maxAmount int) HandlerOption {
	return func(h *Handler) {
		h.maxAmount = maxAmount
	}
}

// WithCanonicalWorkers sets the parallelism of the canonical check.
func WithCanonicalWorkers(workers int) HandlerOption {
	return func(h *Handler) {
		h.canonicalWorkers = workers
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(greedy, minCoins change.Solver, comparator *compare.Comparator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		greedy:     greedy,
		minCoins:   minCoins,
		comparator: comparator,
		storage:    store,
		cache:      cache.NewMemoryCache(),
		logger:     zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.denominationsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, r *http.Request) {
	_ = r
	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: denominations,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutDenominations(w http.ResponseWriter, r *http.Request) {
	var req denominationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Denominations) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid denominations", "denominations must contain at least one value")
		return
	}

	if err := h.storage.SetDenominations(req.Denominations); err != nil {
		if errors.Is(err, storage.ErrInvalidDenominations) {
			writeError(w, http.StatusBadRequest, "Invalid denominations", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markDenominationsUpdated()

	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: denominations,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
		Message:       "Denominations updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGreedy(w http.ResponseWriter, r *http.Request) {
	h.solve(w, r, h.greedy)
}

func (h *Handler) handleMinCoins(w http.ResponseWriter, r *http.Request) {
	h.solve(w, r, h.minCoins)
}

func (h *Handler) solve(w http.ResponseWriter, r *http.Request, solver change.Solver) {
	amount, denominations, ok := h.decodeChangeRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := solver.Solve(amount, denominations)
	elapsed := time.Since(start)

	if err != nil {
		writeSolverError(w, err)
		return
	}

	if result.Infeasible {
		suggestion := fmt.Sprintf("Consider adding a denomination that divides %d or adjust the amount", amount)
		writeError(w, http.StatusUnprocessableEntity, "Cannot make change exactly", "no combination of the denominations sums to the amount", suggestion)
		return
	}

	resp := changeResponse{
		Solver:            solver.Name(),
		Amount:            result.Amount,
		Denominations:     denominations,
		Breakdown:         result.Breakdown,
		Coins:             result.Breakdown.Coins(),
		Total:             result.Breakdown.Total(),
		Remainder:         result.Remainder(),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	amount, denominations, ok := h.decodeChangeRequest(w, r)
	if !ok {
		return
	}

	key := cache.ReportKey(amount, denominations)
	raw, hit, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.logger.Warn("report cache unavailable", zap.String("key", key), zap.Error(err))
	}
	if hit {
		var report compare.Report
		if err := json.Unmarshal([]byte(raw), &report); err == nil {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, report)
			return
		}
		h.logger.Warn("discarding unreadable cached report", zap.String("key", key))
	}

	report, err := h.comparator.Compare(amount, denominations)
	if err != nil {
		writeSolverError(w, err)
		return
	}

	if encoded, err := json.Marshal(report); err == nil {
		if err := h.cache.Set(r.Context(), key, string(encoded)); err != nil {
			h.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
		}
	}

	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleCanonical(w http.ResponseWriter, r *http.Request) {
	var req canonicalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	denominations, ok := h.resolveDenominations(w, req.Denominations)
	if !ok {
		return
	}

	if h.maxAmount > 0 && canonicalSpanExceeds(denominations, h.maxAmount) {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("the two largest denominations sum above the limit of %d", h.maxAmount))
		return
	}

	report, err := change.CheckCanonical(r.Context(), denominations, h.canonicalWorkers)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
			return
		}
		writeSolverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// canonicalSpanExceeds reports whether the two largest of the descending
// denominations sum past limit. It subtracts instead of adding so huge values
// cannot wrap around.
func canonicalSpanExceeds(denominations []int, limit int) bool {
	if denominations[0] > limit {
		return true
	}
	if len(denominations) == 1 {
		return false
	}
	return denominations[1] > limit-denominations[0]
}

func (h *Handler) decodeChangeRequest(w http.ResponseWriter, r *http.Request) (int, []int, bool) {
	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return 0, nil, false
	}

	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "amount is required")
		return 0, nil, false
	}
	if *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", change.ErrNegativeAmount.Error())
		return 0, nil, false
	}

	denominations, ok := h.resolveDenominations(w, req.Denominations)
	if !ok {
		return 0, nil, false
	}
	return *req.Amount, denominations, true
}

// resolveDenominations normalises request denominations, falling back to the
// stored set when none are given.
func (h *Handler) resolveDenominations(w http.ResponseWriter, requested []int) ([]int, bool) {
	if len(requested) == 0 {
		denominations, err := h.storage.GetDenominations()
		if err != nil {
			writeInternalError(w, err)
			return nil, false
		}
		return denominations, true
	}

	denominations, err := storage.Normalize(requested)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid denominations", err.Error())
		return nil, false
	}
	return denominations, true
}

func (h *Handler) currentDenominationsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.denominationsUpdatedAt
}

func (h *Handler) markDenominationsUpdated() {
	h.mu.Lock()
	h.denominationsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type denominationsRequest struct {
	Denominations []int `json:"denominations"`
}

type changeRequest struct {
	Amount        *int  `json:"amount"`
	Denominations []int `json:"denominations,omitempty"`
}

type canonicalRequest struct {
	Denominations []int `json:"denominations,omitempty"`
}

type changeResponse struct {
	Solver            string           `json:"solver"`
	Amount            int              `json:"amount"`
	Denominations     []int            `json:"denominations"`
	Breakdown         change.Breakdown `json:"breakdown"`
	Coins             int              `json:"coins"`
	Total             int              `json:"total"`
	Remainder         int              `json:"remainder"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Denominations []int     `json:"denominations"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Message       string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeSolverError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, change.ErrNegativeAmount), errors.Is(err, change.ErrInvalidDenominations):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, change.ErrAmountTooLarge):
		writeError(w, http.StatusBadRequest, "Amount too large", err.Error(), "Use the greedy endpoint for very large amounts")
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
