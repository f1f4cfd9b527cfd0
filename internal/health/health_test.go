package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/storage/memory"
)

func healthy(context.Context) error { return nil }

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func TestHealthHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("source", NewSimpleChecker("source", healthy))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	response := decodeResponse(t, w)
	if response.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", response.Status)
	}
	if response.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", response.Version)
	}
	if len(response.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(response.Checks))
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("ok", NewSimpleChecker("ok", healthy))
	handler.RegisterChecker("broken", NewSimpleChecker("broken", func(context.Context) error {
		return errors.New("orders file is missing")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	response := decodeResponse(t, w)
	if response.Status != StatusUnhealthy {
		t.Errorf("expected status unhealthy, got %s", response.Status)
	}
	if response.Checks["broken"].Message != "orders file is missing" {
		t.Errorf("unexpected message %q", response.Checks["broken"].Message)
	}
}

func TestHealthHandler_DegradedIsStillOK(t *testing.T) {
	handler := NewHandler("dev")
	handler.RegisterChecker("orders", NewRepositoryChecker("orders", memory.NewOrderRepository()))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if response := decodeResponse(t, w); response.Status != StatusDegraded {
		t.Errorf("expected status degraded, got %s", response.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %s", w.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	cases := []struct {
		name     string
		checkErr error
		wantCode int
		wantBody string
	}{
		{name: "ready", wantCode: http.StatusOK, wantBody: "ready"},
		{name: "not ready", checkErr: errors.New("down"), wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0")
			handler.RegisterChecker("test", NewSimpleChecker("test", func(context.Context) error {
				return tc.checkErr
			}))

			w := httptest.NewRecorder()
			handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tc.wantCode {
				t.Errorf("expected status %d, got %d", tc.wantCode, w.Code)
			}
			if w.Body.String() != tc.wantBody {
				t.Errorf("expected body %q, got %q", tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestSimpleChecker(t *testing.T) {
	checker := NewSimpleChecker("test", func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	check := checker.Check(context.Background())
	if check.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", check.Status)
	}
	if check.DurationMs < 10 {
		t.Errorf("expected duration >= 10ms, got %dms", check.DurationMs)
	}
}

func TestSimpleChecker_Error(t *testing.T) {
	checker := NewSimpleChecker("test", func(context.Context) error {
		return errors.New("test error")
	})

	check := checker.Check(context.Background())
	if check.Status != StatusUnhealthy {
		t.Errorf("expected status unhealthy, got %s", check.Status)
	}
	if check.Message != "test error" {
		t.Errorf("expected message 'test error', got %s", check.Message)
	}
}

type brokenRepository struct{}

func (brokenRepository) All(context.Context) ([]*domain.Order, error) {
	return nil, errors.New("open orders file: no such file")
}

func (brokenRepository) Find(context.Context, int64) (*domain.Order, error) {
	return nil, errors.New("unused")
}

func TestRepositoryChecker(t *testing.T) {
	order := domain.NewOrder(1, domain.Product{Name: "Bran", Price: decimal.NewFromInt(1)})

	ok := NewRepositoryChecker("orders", memory.NewOrderRepository(order)).Check(context.Background())
	if ok.Status != StatusHealthy || ok.Message != "1 orders" {
		t.Errorf("unexpected check: %+v", ok)
	}

	failed := NewRepositoryChecker("orders", brokenRepository{}).Check(context.Background())
	if failed.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %+v", failed)
	}
}
