package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/middleware"
	"moneyflow/internal/services"
)

func setupForecastRouter(forecast services.ForecastServicer) *gin.Engine {
	r := gin.New()
	internal := r.Group("/internal", middleware.PipelineAuthMiddleware("pipeline-key"))
	internal.POST("/forecast", NewForecastHandler(forecast).RunForecast)
	return r
}

func TestForecastHandler_RunForecast(t *testing.T) {
	t.Run("returns only status on success", func(t *testing.T) {
		var gotUser string
		forecast := &mockForecastService{
			runForUserFn: func(userID string) (*services.ForecastResult, error) {
				gotUser = userID
				return &services.ForecastResult{UserID: userID, GoalsProcessed: 2, GoalsUpdated: 2}, nil
			},
		}
		r := setupForecastRouter(forecast)

		rec := doRequestWithHeader(r, "POST", "/internal/forecast", `{"user_id":"`+testUserID+`"}`, "X-API-Key", "pipeline-key")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if len(result) != 1 || result["status"] != "success" {
			t.Errorf("expected only {status: success}, got %v", result)
		}
		if gotUser != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, gotUser)
		}
	})

	t.Run("returns 401 without key", func(t *testing.T) {
		rec := doRequestWithHeader(setupForecastRouter(&mockForecastService{}), "POST", "/internal/forecast", `{"user_id":"`+testUserID+`"}`, "X-API-Key", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_API_KEY")
	})

	t.Run("returns 400 on missing user", func(t *testing.T) {
		rec := doRequestWithHeader(setupForecastRouter(&mockForecastService{}), "POST", "/internal/forecast", `{}`, "X-API-Key", "pipeline-key")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 503 when forecast fails", func(t *testing.T) {
		forecast := &mockForecastService{
			runForUserFn: func(string) (*services.ForecastResult, error) {
				return nil, apperrors.ErrForecastUnavailable
			},
		}

		rec := doRequestWithHeader(setupForecastRouter(forecast), "POST", "/internal/forecast", `{"user_id":"`+testUserID+`"}`, "X-API-Key", "pipeline-key")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORECAST_UNAVAILABLE")
	})
}
