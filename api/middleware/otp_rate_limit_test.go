package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func otpRequest(mobile, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rpc/requestOtp", strings.NewReader(`{"mobileNumber":"`+mobile+`"}`))
	req.RemoteAddr = remote
	return req
}

func TestOTPRateLimit_AllowsUnderLimitAndKeepsBody(t *testing.T) {
	store := newFakeRateStore()
	policy := NewOTPRateLimitPolicy("request_otp", time.Minute, 2, 2)
	handler := OTPRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"mobileNumber":"9876543210"`) {
			t.Fatalf("unexpected body: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, otpRequest("9876543210", "1.2.3.4:5678"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for key := range store.counts {
		if strings.Contains(key, "9876543210") {
			t.Fatalf("mobile number stored in clear: %s", key)
		}
	}
}

func TestOTPRateLimit_ForwardsBodyBeyondPeekLimit(t *testing.T) {
	payload := `{"mobileNumber":"9876543210","notes":"` + strings.Repeat("x", 2*maxOTPBodyBytes) + `"}`
	policy := NewOTPRateLimitPolicy("request_otp", time.Minute, 5, 5)
	handler := OTPRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(body) != payload {
			t.Fatalf("body truncated to %d of %d bytes", len(body), len(payload))
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rpc/requestOtp", strings.NewReader(payload))
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOTPRateLimit_MobileLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewOTPRateLimitPolicy("request_otp", time.Minute, 0, 3)
	handler := OTPRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, otpRequest("9876543210", "1.2.3."+string(rune('1'+i))+":5678"))

		switch {
		case i < 3 && rec.Code != http.StatusOK:
			t.Fatalf("expected success before limit, got %d", rec.Code)
		case i == 3:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code: %s", payload.Error.Code)
			}
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, otpRequest("8123456789", "1.2.3.4:5678"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other numbers should not be limited, got %d", rec.Code)
	}
}

func TestOTPRateLimit_IPLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewOTPRateLimitPolicy("verify_otp", time.Minute, 1, 0)
	handler := OTPRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := otpRequest("9876543210", "5.6.7.8:1234")
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected success, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	}
	if _, ok := store.counts["otp:verify_otp:ip:9.9.9.9"]; !ok {
		t.Fatalf("expected forwarded client ip to be used, keys=%v", store.counts)
	}
}

func TestOTPRateLimit_StoreFailureIsDependencyError(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := OTPRateLimit(NewOTPRateLimitPolicy("request_otp", time.Minute, 1, 1), store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, otpRequest("9876543210", "1.2.3.4:5678"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestOTPRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	handler := OTPRateLimit(NewOTPRateLimitPolicy("request_otp", 0, 1, 1), newFakeRateStore(), nil)(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, otpRequest("9876543210", "1.2.3.4:5678"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) WindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestOTPRateLimit_MalformedBodyOnlyCountsIP(t *testing.T) {
	store := newFakeRateStore()
	handler := OTPRateLimit(NewOTPRateLimitPolicy("request_otp", time.Minute, 5, 1), store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rpc/requestOtp", strings.NewReader(`{`))
	req.RemoteAddr = "7.7.7.7:80"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("malformed bodies are left to the handler, got %d", rec.Code)
	}
	if len(store.counts) != 1 {
		t.Fatalf("expected only the ip window, got %v", store.counts)
	}
}
