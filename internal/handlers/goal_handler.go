package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/pagination"
	"moneyflow/internal/services"
)

const defaultSimulationMonths = 12

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService     services.GoalServicer
	forecastService services.ForecastServicer
	auditService    services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, forecastService services.ForecastServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, forecastService: forecastService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name            string                 `json:"name" binding:"required,min=1,max=100"`
	TargetAmount    decimal.Decimal        `json:"target_amount" binding:"required,gt=0" swaggertype:"string" example:"10000"`
	CurrentAmount   *decimal.Decimal       `json:"current_amount" binding:"omitempty,gte=0" swaggertype:"string" example:"0"`
	TargetDate      *time.Time             `json:"target_date"`
	AllocationType  finance.AllocationType `json:"allocation_type" binding:"required,allocation_type"`
	AllocationValue decimal.Decimal        `json:"allocation_value" binding:"required,gt=0" swaggertype:"string" example:"10"`
	AllocationCycle *finance.Cycle         `json:"allocation_cycle" binding:"omitempty,cycle"`
	SourceIncomeID  *string                `json:"source_income_id" binding:"omitempty,uuid"`
}

// UpdateGoalRequest represents a partial goal update. Sending
// allocation_type replaces the whole allocation, so allocation_value must
// accompany it and omitted cycle or source are cleared. An omitted
// target_date is kept; clear_target_date removes it.
type UpdateGoalRequest struct {
	Name            *string                 `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount    *decimal.Decimal        `json:"target_amount" binding:"omitempty,gt=0" swaggertype:"string"`
	CurrentAmount   *decimal.Decimal        `json:"current_amount" binding:"omitempty,gte=0" swaggertype:"string"`
	TargetDate      *time.Time              `json:"target_date"`
	ClearTargetDate bool                    `json:"clear_target_date"`
	AllocationType  *finance.AllocationType `json:"allocation_type" binding:"omitempty,allocation_type"`
	AllocationValue *decimal.Decimal        `json:"allocation_value" binding:"omitempty,gt=0" swaggertype:"string"`
	AllocationCycle *finance.Cycle          `json:"allocation_cycle" binding:"omitempty,cycle"`
	SourceIncomeID  *string                 `json:"source_income_id" binding:"omitempty,uuid"`
}

func (r *UpdateGoalRequest) allocation() (*services.GoalAllocationInput, error) {
	if r.AllocationType == nil {
		if r.AllocationValue != nil || r.AllocationCycle != nil || r.SourceIncomeID != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAllocation, "allocation_type is required when changing the allocation")
		}
		return nil, nil
	}
	if r.AllocationValue == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAllocation, "allocation_value is required when changing the allocation")
	}
	return &services.GoalAllocationInput{
		Type:           *r.AllocationType,
		Value:          *r.AllocationValue,
		Cycle:          r.AllocationCycle,
		SourceIncomeID: r.SourceIncomeID,
	}, nil
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create a goal
// @Description Create a savings goal with its allocation. Over-allocation is reported as warnings, not rejected.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} services.GoalResult "Goal created with allocation warnings"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.goalService.CreateGoal(c.Request.Context(), userID, services.GoalInput{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Allocation: services.GoalAllocationInput{
			Type:           req.AllocationType,
			Value:          req.AllocationValue,
			Cycle:          req.AllocationCycle,
			SourceIncomeID: req.SourceIncomeID,
		},
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceGoal, result.Goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "allocation_type": req.AllocationType, "allocation_value": req.AllocationValue.String()})

	c.JSON(http.StatusCreated, result)
}

// GetGoals handles listing goals for the authenticated user.
// @Summary     Get goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       sort      query string false "Sort column, prefix with - for descending"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Goal] "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
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

	result, err := h.goalService.GetUserGoals(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoal handles retrieving a single goal.
// @Summary     Get goal by ID
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.Goal "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal handles a partial goal update.
// @Summary     Update goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} services.GoalResult "Updated goal with allocation warnings"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocation, err := req.allocation()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, services.GoalUpdate{
		Name:            req.Name,
		TargetAmount:    req.TargetAmount,
		CurrentAmount:   req.CurrentAmount,
		TargetDate:      req.TargetDate,
		ClearTargetDate: req.ClearTargetDate,
		Allocation:      allocation,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceGoal, goalID, c.ClientIP(),
		map[string]interface{}{"name": result.Goal.Name, "allocation_changed": allocation != nil})

	c.JSON(http.StatusOK, result)
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceGoal, goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// GetAllocation reports how the user's income is split across goals.
// @Summary     Get allocation report
// @Description Monthly contribution per goal against total monthly income, flagging over-allocation
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} finance.AllocationReport "Allocation report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/allocation [get]
func (h *GoalHandler) GetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.goalService.GetAllocationReport(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allocation": report})
}

// RunForecast recomputes completion forecasts for all of the user's goals.
// @Summary     Recompute goal forecasts
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ForecastResult "Forecast run summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Forecast unavailable"
// @Router      /goals/forecast [post]
func (h *GoalHandler) RunForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.forecastService.RunForUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": result})
}

// SimulateGoal projects a goal's balance a number of months ahead.
// @Summary     Simulate goal growth
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Goal ID"
// @Param       months query int    false "Months to simulate (default 12, max 600)"
// @Success     200 {object} services.GoalSimulation "Simulation"
// @Failure     400 {object} ErrorResponse "Invalid goal ID or months"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/simulate [get]
func (h *GoalHandler) SimulateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := defaultSimulationMonths
	if v := c.Query("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be an integer"))
			return
		}
	}

	simulation, err := h.goalService.SimulateGoal(c.Request.Context(), userID, goalID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"simulation": simulation})
}
