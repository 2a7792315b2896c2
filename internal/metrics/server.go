package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server exposes a registry on /metrics.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// Listen binds addr and serves the gatherer in the background.
func Listen(addr string, gatherer prometheus.Gatherer) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &Server{
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
	}

	go func() {
		log.Debugf(" > metrics listening on: [%s]", listener.Addr())
		err := server.httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server, serve: %s", err)
		}
	}()

	return server, nil
}

// Addr returns the bound address.
func (server *Server) Addr() string {
	return server.listener.Addr().String()
}

// Shutdown stops the listener, waiting for in-flight scrapes.
func (server *Server) Shutdown(ctx context.Context) error {
	if err := server.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}
