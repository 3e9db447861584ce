// Package server builds the HTTP server carrying the scheduling and
// history API. Delivery work never runs on a request path, so the
// timeouts can stay tight without risking an in-flight send.
package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// New returns a server for the given router with the configured
// read/write timeouts.
func New(addr string, router *ginext.Engine, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
