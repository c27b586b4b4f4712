// Package logger provides the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger. Production uses JSON output; every other
// environment gets the console encoder. The component name ("api",
// "forecast-worker", "migrate") is attached to every entry.
func Init(env, component string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Sugar().With("component", component)
	})
}

// Get returns the global sugared logger, falling back to a development
// logger when Init was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development", "moneyflow")
	}
	return sugar
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
