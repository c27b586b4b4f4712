package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/services"
)

// --- mock dashboard service ---

type mockDashboardService struct {
	accrualFn func(userID string, period finance.Period, since *time.Time, now time.Time) (*finance.Projection, error)
	sourcesFn func(userID string) ([]finance.IncomeSource, error)
}

func (m *mockDashboardService) Accrual(_ context.Context, userID string, period finance.Period, since *time.Time, now time.Time) (*finance.Projection, error) {
	if m.accrualFn != nil {
		return m.accrualFn(userID, period, since, now)
	}
	p := finance.Project(nil, now, now)
	return &p, nil
}

func (m *mockDashboardService) AccrualSources(_ context.Context, userID string) ([]finance.IncomeSource, error) {
	if m.sourcesFn != nil {
		return m.sourcesFn(userID)
	}
	return []finance.IncomeSource{}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

var dashboardNow = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

func newDashboardHandler(svc services.DashboardServicer) *DashboardHandler {
	h := NewDashboardHandler(svc, time.Millisecond)
	h.now = func() time.Time { return dashboardNow }
	return h
}

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/dashboard/accrual", handler.GetAccrual)
	auth.GET("/dashboard/accrual/stream", handler.StreamAccrual)
	return r
}

func TestDashboardHandler_GetAccrual(t *testing.T) {
	t.Run("passes period and since", func(t *testing.T) {
		var gotPeriod finance.Period
		var gotSince *time.Time
		svc := &mockDashboardService{
			accrualFn: func(_ string, period finance.Period, since *time.Time, now time.Time) (*finance.Projection, error) {
				gotPeriod, gotSince = period, since
				p := finance.Project(nil, *since, now)
				return &p, nil
			},
		}
		r := setupDashboardRouter(newDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/accrual?period=custom&since=2025-03-12T09:00:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPeriod != finance.PeriodCustom {
			t.Errorf("expected custom period, got %q", gotPeriod)
		}
		if gotSince == nil || gotSince.Hour() != 9 {
			t.Errorf("expected since at 09:00, got %v", gotSince)
		}
	})

	t.Run("returns 400 on unknown period", func(t *testing.T) {
		r := setupDashboardRouter(newDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/accrual?period=decade", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed since", func(t *testing.T) {
		r := setupDashboardRouter(newDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/accrual?period=custom&since=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		svc := &mockDashboardService{
			accrualFn: func(string, finance.Period, *time.Time, time.Time) (*finance.Projection, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("connection refused"))
			},
		}
		r := setupDashboardRouter(newDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/accrual", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Error("internal error detail leaked to the client")
		}
	})
}

func TestDashboardHandler_StreamAccrual(t *testing.T) {
	t.Run("emits accrual events until the client leaves", func(t *testing.T) {
		svc := &mockDashboardService{
			sourcesFn: func(string) ([]finance.IncomeSource, error) {
				return []finance.IncomeSource{{
					ID: testSourceID, Name: "Salary", Amount: decimal.NewFromInt(86400),
					Cycle: finance.CycleDaily, Status: finance.SourceActive,
				}}, nil
			},
		}
		handler := newDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		calls := 0
		handler.now = func() time.Time {
			calls++
			if calls >= 3 {
				cancel()
			}
			return dashboardNow.Add(time.Duration(calls) * time.Second)
		}

		req := httptest.NewRequest("GET", "/dashboard/accrual/stream?period=today", http.NoBody).WithContext(ctx)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		body := rec.Body.String()
		if got := strings.Count(body, "event:accrual"); got < 2 {
			t.Fatalf("expected at least 2 accrual events, got %d: %s", got, body)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
			t.Errorf("expected text/event-stream, got %q", ct)
		}
	})

	t.Run("returns 400 for custom without since", func(t *testing.T) {
		r := setupDashboardRouter(newDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/accrual/stream?period=custom", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 when sources cannot load", func(t *testing.T) {
		svc := &mockDashboardService{
			sourcesFn: func(string) ([]finance.IncomeSource, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("timeout"))
			},
		}
		r := setupDashboardRouter(newDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/accrual/stream", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
