package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/logger"
	"moneyflow/internal/services"
)

// DashboardHandler serves the live income accrual view.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	tick             time.Duration
	now              func() time.Time
}

// NewDashboardHandler creates a DashboardHandler whose stream emits once per tick.
func NewDashboardHandler(dashboardService services.DashboardServicer, tick time.Duration) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, tick: tick, now: time.Now}
}

// AccrualQuery selects the accrual window. Since is required for the
// custom period and ignored otherwise.
type AccrualQuery struct {
	Period finance.Period `form:"period" binding:"omitempty,accrual_period"`
	Since  *time.Time     `form:"since"`
}

// GetAccrual returns the income accrued so far in the requested period.
// @Summary     Get accrued income
// @Description Income accumulated by active sources since the start of the period
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "today, week, month (default), year or custom"
// @Param       since  query string false "RFC3339 start for the custom period"
// @Success     200 {object} finance.Projection "Accrued income"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/accrual [get]
func (h *DashboardHandler) GetAccrual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q AccrualQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	projection, err := h.dashboardService.Accrual(c.Request.Context(), userID, q.Period, q.Since, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accrual": projection})
}

// StreamAccrual pushes a fresh projection as a server-sent event on every
// tick until the client disconnects. Sources are read once when the
// stream opens; clients reconnect to pick up edits.
// @Summary     Stream accrued income
// @Description Server-sent events, one "accrual" event per tick
// @Tags        dashboard
// @Produce     text/event-stream
// @Security    BearerAuth
// @Param       period query string false "today, week, month (default), year or custom"
// @Param       since  query string false "RFC3339 start for the custom period"
// @Success     200 {object} finance.Projection "Accrual event payload"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/accrual/stream [get]
func (h *DashboardHandler) StreamAccrual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q AccrualQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := services.AccrualStart(q.Period, q.Since, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	sources, err := h.dashboardService.AccrualSources(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	err = finance.Stream(ctx, h.tick, start, sources, h.now, func(p finance.Projection) error {
		c.SSEvent("accrual", p)
		c.Writer.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, ctx.Err()) {
		logger.Get().Warnw("accrual stream stopped", "user_id", userID, "error", err)
	}
}
