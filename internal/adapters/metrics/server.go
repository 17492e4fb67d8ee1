package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Collectors groups the collectors registered by Setup
type Collectors struct {
	Requests *RequestMetricsCollector
	Analysis *AnalysisMetricsCollector
	Watch    *WatchMetricsCollector
}

// Setup initializes the registry, registers every collector and installs
// the global recorders
func Setup() (*Collectors, error) {
	InitRegistry()

	c := &Collectors{
		Requests: NewRequestMetricsCollector(),
		Analysis: NewAnalysisMetricsCollector(),
		Watch:    NewWatchMetricsCollector(),
	}
	if err := c.Requests.Register(); err != nil {
		return nil, fmt.Errorf("failed to register request metrics: %w", err)
	}
	if err := c.Analysis.Register(); err != nil {
		return nil, fmt.Errorf("failed to register analysis metrics: %w", err)
	}
	if err := c.Watch.Register(); err != nil {
		return nil, fmt.Errorf("failed to register watch metrics: %w", err)
	}

	SetGlobalAnalysisCollector(c.Analysis)
	SetGlobalWatchCollector(c.Watch)
	return c, nil
}

// Server exposes the registry over HTTP
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// NewServer binds addr and serves the registry at path
func NewServer(addr, path string) (*Server, error) {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, Handler())

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return &Server{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
	}, nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves in the background
func (s *Server) Start() {
	go func() {
		if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
