package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"golang.org/x/time/rate"
)

func newAuthedRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/todo", nil)
	ctx := ContextWithPrincipal(req.Context(), model.TokenClaims{
		UserID: userID, Email: userID + "@example.com", Username: userID,
	})
	return req.WithContext(ctx)
}

func TestRateLimitMiddleware_AllowsRequestsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            2,
		Burst:           5,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handlerCallCount := 0
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newAuthedRequest("user-1"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            1,
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newAuthedRequest("user-rate-limit"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目は429
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-rate-limit"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	// Retry-Afterヘッダーが付与されること
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != "RATE_LIMITED" {
		t.Errorf("error code = %q, want %q", body.Code, "RATE_LIMITED")
	}
}

func TestRateLimitMiddleware_LimitsArePerUser(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            1,
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-aがバーストを使い切る
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-a"))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("first request for user-a: status = %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-a"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request for user-a: status = %d, want 429", w.Result().StatusCode)
	}

	// user-bは影響を受けない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-b"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("request for user-b: status = %d, want 200", w.Result().StatusCode)
	}
}

func TestRateLimitMiddleware_WithoutPrincipal_Returns401(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without an authenticated principal")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/todo", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRateLimiter_TokensReplenishOverTime(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(100), // 10msごとに1トークン補充
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-replenish"))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("first request: status = %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-replenish"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Result().StatusCode)
	}

	// トークン補充を待つ
	time.Sleep(20 * time.Millisecond)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newAuthedRequest("user-replenish"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("request after replenish: status = %d, want 200", w.Result().StatusCode)
	}
}

func TestRateLimiter_CleanupRemovesIdleEntries(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            1,
		Burst:           1,
		CleanupInterval: 10 * time.Millisecond,
	})
	defer rl.Stop()

	rl.getOrCreateLimiter("idle-user")

	rl.mu.RLock()
	_, exists := rl.limiters["idle-user"]
	rl.mu.RUnlock()
	if !exists {
		t.Fatal("expected limiter entry to exist")
	}

	// クリーンアップ間隔の経過を待つ
	time.Sleep(50 * time.Millisecond)

	rl.mu.RLock()
	_, exists = rl.limiters["idle-user"]
	rl.mu.RUnlock()
	if exists {
		t.Error("expected idle limiter entry to be cleaned up")
	}
}
