package httpserver

import (
	"net/http"
	"time"

	"campuscoffee/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	idleTimeout       = 120 * time.Second
	minWriteTimeout   = 60 * time.Second
	// writeGrace leaves room to write the 504 the timeout middleware renders.
	writeGrace = 5 * time.Second
)

// New builds the API server for cfg. The write timeout always outlasts the
// per-request timeout.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg.RequestTimeout),
		IdleTimeout:       idleTimeout,
	}
}

func writeTimeout(requestTimeout time.Duration) time.Duration {
	return max(minWriteTimeout, requestTimeout+writeGrace)
}
