package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves income and goal reports.
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// ReportQuery selects the span of the income report.
type ReportQuery struct {
	Period finance.ReportPeriod `form:"period" binding:"omitempty,report_period"`
}

func (q ReportQuery) period() finance.ReportPeriod {
	if q.Period == "" {
		return finance.ReportLast12Months
	}
	return q.Period
}

// GetIncomeReport returns monthly projected income totals.
// @Summary     Monthly income report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "this_month, this_year or last_12_months (default)"
// @Success     200 {array}  finance.MonthlyIncome "Monthly income, oldest first"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/income [get]
func (h *ReportHandler) GetIncomeReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	series, err := h.reportService.IncomeSeries(c.Request.Context(), userID, q.period(), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": q.period(), "months": series})
}

// ExportIncomeReport downloads the income report as a spreadsheet.
// @Summary     Export income report
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       period query string false "this_month, this_year or last_12_months (default)"
// @Success     200 {file} file "Excel workbook"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/income.xlsx [get]
func (h *ReportHandler) ExportIncomeReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := h.reportService.ExportIncomeXLSX(c.Request.Context(), userID, q.period(), now, &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("income-%s-%s.xlsx", q.period(), now.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetGoalReport summarises progress across all goals.
// @Summary     Goal progress summary
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} finance.GoalSummary "Goal summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/goals [get]
func (h *ReportHandler) GetGoalReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GoalSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
