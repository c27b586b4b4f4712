package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moneyflow/internal/config"
	"moneyflow/internal/database"
	"moneyflow/internal/logger"
	"moneyflow/internal/queue"
	"moneyflow/internal/server"
	"moneyflow/internal/services"
)

// @title           Moneyflow API
// @version         1.0
// @description     Moneyflow tracks recurring income, shows it accruing in real time and funds savings goals from it.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const (
	inlineForecastTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

func main() {
	logger.Init(os.Getenv("ENV"), "api")
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(database.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forecastService := services.NewForecastService(dbManager.DB(), appConfig.ForecastConcurrency)

	var dispatcher services.ForecastDispatcher
	if appConfig.AMQPURL != "" {
		client, err := queue.Connect(ctx, appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer client.Close()
		dispatcher = client
		log.Infow("Forecasts dispatched through broker", "queue", appConfig.AMQPQueue)
	} else {
		inline := services.NewInlineDispatcher(forecastService, inlineForecastTimeout)
		defer inline.Wait()
		dispatcher = inline
		log.Info("No AMQP_URL set, forecasts run in-process")
	}

	router := server.NewRouter(server.Deps{
		DB:         dbManager.DB(),
		Config:     appConfig,
		Forecast:   forecastService,
		Dispatcher: dispatcher,
		Ping:       dbManager.Ping,
	})

	srv := server.NewHTTPServer(":"+appConfig.Port, router)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Moneyflow backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
