package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewHTTPServer wraps handler in an http.Server whose request contexts are
// cancelled as soon as Shutdown starts, so long-lived responses such as
// the accrual stream end instead of holding shutdown until its deadline.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}
