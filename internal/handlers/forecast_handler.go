package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/logger"
	"moneyflow/internal/services"
)

// ForecastHandler exposes the forecast run to internal pipelines.
type ForecastHandler struct {
	forecastService services.ForecastServicer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// ForecastRequest identifies the user whose goals to forecast.
type ForecastRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// ForecastStatusResponse is the only payload of a forecast run.
type ForecastStatusResponse struct {
	Status string `json:"status" example:"success"`
}

// RunForecast recomputes and stores completion dates for one user's goals.
// @Summary     Run goal forecast
// @Description Recompute forecasted completion dates for a user's goals. Returns only a status.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ForecastRequest true "User to forecast"
// @Success     200 {object} ForecastStatusResponse "Forecast stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Forecast unavailable"
// @Router      /internal/forecast [post]
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.forecastService.RunForUser(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("pipeline forecast finished",
		"user_id", req.UserID,
		"goals_processed", result.GoalsProcessed,
		"goals_updated", result.GoalsUpdated,
		"failures", result.Failures,
	)

	c.JSON(http.StatusOK, ForecastStatusResponse{Status: "success"})
}
