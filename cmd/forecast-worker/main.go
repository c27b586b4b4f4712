// Command forecast-worker consumes forecast requests from the broker and
// periodically sweeps every user's goals.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"moneyflow/internal/config"
	"moneyflow/internal/database"
	"moneyflow/internal/logger"
	"moneyflow/internal/queue"
	"moneyflow/internal/services"
)

const reconnectDelay = 5 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"), "forecast-worker")
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required")
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forecast := services.NewForecastService(dbManager.DB(), cfg.ForecastConcurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consume(gctx, cfg, forecast) })
	g.Go(func() error { return sweep(gctx, cfg.ForecastSweepInterval, forecast) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Get().Info("Forecast worker stopped")
	return nil
}

// consume keeps a broker connection open and reconnects whenever the
// channel drops.
func consume(ctx context.Context, cfg *config.Config, forecast services.ForecastServicer) error {
	log := logger.Get()

	handler := func(ctx context.Context, msg *queue.ForecastRequest) error {
		res, err := forecast.RunForUser(ctx, msg.UserID)
		if err != nil {
			return err
		}
		log.Infow("forecast complete",
			"user_id", res.UserID,
			"goals_processed", res.GoalsProcessed,
			"goals_updated", res.GoalsUpdated,
			"failures", res.Failures,
		)
		return nil
	}

	for {
		client, err := queue.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}

		err = client.Consume(ctx, handler)
		client.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnw("consumer stopped, reconnecting", "error", err, "delay", reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

// sweep recomputes every user's forecasts on a fixed interval so goals stay
// current as the calendar moves.
func sweep(ctx context.Context, interval time.Duration, forecast services.ForecastServicer) error {
	log := logger.Get()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			started := time.Now()
			res, err := forecast.RunAll(ctx)
			if err != nil {
				log.Errorw("forecast sweep failed", "error", err)
				continue
			}
			log.Infow("forecast sweep complete",
				"users", res.Users,
				"failed_users", res.FailedUsers,
				"goals_updated", res.GoalsUpdated,
				"duration", time.Since(started),
			)
		}
	}
}
