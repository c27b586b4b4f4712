package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/pagination"
	"moneyflow/internal/services"
)

// IncomeSourceHandler handles income source requests.
type IncomeSourceHandler struct {
	incomeSourceService services.IncomeSourceServicer
	auditService        services.AuditServicer
}

// NewIncomeSourceHandler creates a new IncomeSourceHandler.
func NewIncomeSourceHandler(incomeSourceService services.IncomeSourceServicer, auditService services.AuditServicer) *IncomeSourceHandler {
	return &IncomeSourceHandler{incomeSourceService: incomeSourceService, auditService: auditService}
}

// CreateIncomeSourceRequest represents the request payload for creating an income source.
type CreateIncomeSourceRequest struct {
	Name   string          `json:"name" binding:"required,min=1,max=100"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"2500.00"`
	Cycle  finance.Cycle   `json:"cycle" binding:"required,cycle"`
}

// UpdateIncomeSourceRequest represents the request payload for updating an income source.
type UpdateIncomeSourceRequest struct {
	Name   *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Amount *decimal.Decimal `json:"amount" binding:"omitempty,gt=0" swaggertype:"string" example:"2500.00"`
	Cycle  *finance.Cycle   `json:"cycle" binding:"omitempty,cycle"`
}

// CreateIncomeSource handles the creation of a new income source.
// @Summary     Create an income source
// @Description Register a recurring income source
// @Tags        income-sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeSourceRequest true "Income source details"
// @Success     201 {object} models.IncomeSource "Income source created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources [post]
func (h *IncomeSourceHandler) CreateIncomeSource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	source, err := h.incomeSourceService.CreateIncomeSource(c.Request.Context(), userID, services.IncomeSourceInput{
		Name:   req.Name,
		Amount: req.Amount,
		Cycle:  req.Cycle,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceIncomeSource, source.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount.String(), "cycle": req.Cycle})

	c.JSON(http.StatusCreated, gin.H{"income_source": source})
}

// GetIncomeSources handles listing income sources for the authenticated user.
// @Summary     Get income sources
// @Description Get a paginated list of income sources
// @Tags        income-sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active/paused)"
// @Param       sort      query string false "Sort column, prefix with - for descending"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.IncomeSource] "Paginated income sources"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources [get]
func (h *IncomeSourceHandler) GetIncomeSources(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *finance.SourceStatus
	if v := c.Query("status"); v != "" {
		s := finance.SourceStatus(v)
		if s != finance.SourceActive && s != finance.SourcePaused {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'active' or 'paused'"))
			return
		}
		status = &s
	}

	result, err := h.incomeSourceService.GetUserIncomeSources(c.Request.Context(), userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncomeSource handles retrieving a single income source.
// @Summary     Get income source by ID
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} models.IncomeSource "Income source details"
// @Failure     400 {object} ErrorResponse "Invalid income source ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Router      /income-sources/{id} [get]
func (h *IncomeSourceHandler) GetIncomeSource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	source, err := h.incomeSourceService.GetIncomeSourceByID(c.Request.Context(), userID, sourceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income_source": source})
}

// UpdateIncomeSource handles a partial update of an income source.
// @Summary     Update income source
// @Tags        income-sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Income source ID"
// @Param       request body UpdateIncomeSourceRequest true "Fields to change"
// @Success     200 {object} models.IncomeSource "Updated income source"
// @Failure     400 {object} ErrorResponse "Invalid input or income source ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income-sources/{id} [put]
func (h *IncomeSourceHandler) UpdateIncomeSource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	source, err := h.incomeSourceService.UpdateIncomeSource(c.Request.Context(), userID, sourceID, services.IncomeSourceUpdate{
		Name:   req.Name,
		Amount: req.Amount,
		Cycle:  req.Cycle,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceIncomeSource, sourceID, c.ClientIP(),
		map[string]interface{}{"name": source.Name, "amount": source.Amount.String(), "cycle": source.Cycle})

	c.JSON(http.StatusOK, gin.H{"income_source": source})
}

// PauseIncomeSource stops a source from accruing and funding goals.
// @Summary     Pause income source
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} models.IncomeSource "Paused income source"
// @Failure     400 {object} ErrorResponse "Invalid income source ID"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Router      /income-sources/{id}/pause [post]
func (h *IncomeSourceHandler) PauseIncomeSource(c *gin.Context) {
	h.setStatus(c, finance.SourcePaused, services.AuditActionPause)
}

// ResumeIncomeSource reactivates a paused source.
// @Summary     Resume income source
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} models.IncomeSource "Active income source"
// @Failure     400 {object} ErrorResponse "Invalid income source ID"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Router      /income-sources/{id}/resume [post]
func (h *IncomeSourceHandler) ResumeIncomeSource(c *gin.Context) {
	h.setStatus(c, finance.SourceActive, services.AuditActionResume)
}

func (h *IncomeSourceHandler) setStatus(c *gin.Context, status finance.SourceStatus, action string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	source, err := h.incomeSourceService.SetIncomeSourceStatus(c.Request.Context(), userID, sourceID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, services.AuditResourceIncomeSource, sourceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"income_source": source})
}

// DeleteIncomeSource handles deleting an income source.
// @Summary     Delete income source
// @Tags        income-sources
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income source ID"
// @Success     200 {object} MessageResponse "Income source deleted"
// @Failure     400 {object} ErrorResponse "Invalid income source ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Router      /income-sources/{id} [delete]
func (h *IncomeSourceHandler) DeleteIncomeSource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeSourceService.DeleteIncomeSource(c.Request.Context(), userID, sourceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceIncomeSource, sourceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Income source deleted successfully"})
}
