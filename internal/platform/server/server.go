package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Timeouts bounds the server's connection handling and graceful shutdown.
// Zero fields take the defaults used by New.
type Timeouts struct {
	ReadHeader time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.ReadHeader <= 0 {
		t.ReadHeader = 10 * time.Second
	}
	if t.Idle <= 0 {
		t.Idle = 120 * time.Second
	}
	if t.Shutdown <= 0 {
		t.Shutdown = 10 * time.Second
	}
	return t
}

// Server wraps an http.Server with graceful shutdown.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	// onShutdown runs after the listener stops accepting, before Run returns.
	onShutdown []func(context.Context) error
}

// New creates a Server that listens on addr and routes to handler.
func New(addr string, handler http.Handler, timeouts Timeouts) *Server {
	t := timeouts.withDefaults()
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: t.ReadHeader,
			IdleTimeout:       t.Idle,
		},
		shutdownTimeout: t.Shutdown,
	}
}

// OnShutdown registers fn to release a dependency (session store, telemetry)
// once in-flight requests have drained.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and blocks until ctx is cancelled, then
// gracefully shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	errs := []error{s.srv.Shutdown(shutdownCtx)}
	for _, fn := range s.onShutdown {
		errs = append(errs, fn(shutdownCtx))
	}
	return errors.Join(errs...)
}
