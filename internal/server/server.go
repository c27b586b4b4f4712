// Package server assembles the services, handlers and routes of the API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"moneyflow/internal/config"
	"moneyflow/internal/handlers"
	"moneyflow/internal/logger"
	"moneyflow/internal/middleware"
	"moneyflow/internal/services"

	_ "moneyflow/internal/docs" // Import swagger docs
)

// Deps are the long-lived components the router is built from. Dispatcher
// receives a request after every income source or goal mutation; Ping
// backs the health check and may be nil.
type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	Forecast   services.ForecastServicer
	Dispatcher services.ForecastDispatcher
	Ping       func(ctx context.Context) error
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps Deps) *gin.Engine {
	db := deps.DB
	cfg := deps.Config

	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	incomeSourceService := services.NewIncomeSourceService(db, deps.Dispatcher)
	goalService := services.NewGoalService(db, deps.Dispatcher)
	dashboardService := services.NewDashboardService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	incomeSourceHandler := handlers.NewIncomeSourceHandler(incomeSourceService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, deps.Forecast, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.AccrualTick)
	reportHandler := handlers.NewReportHandler(reportService)
	forecastHandler := handlers.NewForecastHandler(deps.Forecast)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", health(deps.Ping))

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Pipeline routes
	internal := v1.Group("/internal")
	internal.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	internal.POST("/forecast", forecastHandler.RunForecast)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	sources := protected.Group("/income-sources")
	sources.POST("", incomeSourceHandler.CreateIncomeSource)
	sources.GET("", incomeSourceHandler.GetIncomeSources)
	sources.GET("/:id", incomeSourceHandler.GetIncomeSource)
	sources.PUT("/:id", incomeSourceHandler.UpdateIncomeSource)
	sources.DELETE("/:id", incomeSourceHandler.DeleteIncomeSource)
	sources.POST("/:id/pause", incomeSourceHandler.PauseIncomeSource)
	sources.POST("/:id/resume", incomeSourceHandler.ResumeIncomeSource)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/allocation", goalHandler.GetAllocation)
	goals.POST("/forecast", goalHandler.RunForecast)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/simulate", goalHandler.SimulateGoal)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/accrual", dashboardHandler.GetAccrual)
	dashboard.GET("/accrual/stream", dashboardHandler.StreamAccrual)

	reports := protected.Group("/reports")
	reports.GET("/income", reportHandler.GetIncomeReport)
	reports.GET("/income.xlsx", reportHandler.ExportIncomeReport)
	reports.GET("/goals", reportHandler.GetGoalReport)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logger.Get().Warnw("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
