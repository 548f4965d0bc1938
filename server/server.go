package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquanorma/credentials/config"
	"golang.org/x/sync/errgroup"
)

// Closer releases a resource once the HTTP server has drained, e.g. the
// database pool.
type Closer struct {
	Name  string
	Close func(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	logger         *slog.Logger
	// reloadFunc runs on SIGHUP.
	reloadFunc func() error
	closers    []Closer
	exitFunc   func(code int)
}

func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
	}
}

// AddCloser registers c to run after the HTTP server stopped. Closers run
// concurrently.
func (s *Server) AddCloser(c Closer) {
	s.closers = append(s.closers, c)
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, then shuts down gracefully
// and exits. SIGHUP calls the reload func and keeps serving.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signals)

	exitCode := 0
wait:
	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				s.reload()
				continue
			}
			s.logger.Info("received shutdown signal", "signal", sig.String())
			break wait
		case err := <-serverError:
			s.logger.Error("HTTP server failed", "error", err)
			exitCode = 1
			break wait
		}
	}

	if err := s.shutdown(srv, cfg.ShutdownGracefulTimeout.Duration); err != nil {
		s.logger.Error("shutdown failed", "error", err)
		exitCode = 1
	} else {
		s.logger.Info("stopped gracefully")
	}
	s.exitFunc(exitCode)
}

func (s *Server) reload() {
	if s.reloadFunc == nil {
		return
	}
	s.logger.Info("received SIGHUP, reloading configuration")
	if err := s.reloadFunc(); err != nil {
		s.logger.Error("configuration reload failed, keeping current configuration", "error", err)
		return
	}
	s.logger.Info("configuration reloaded")
}

// shutdown drains the HTTP server, then runs the closers, all within timeout.
func (s *Server) shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.closers {
		g.Go(func() error {
			if err := c.Close(gctx); err != nil {
				return fmt.Errorf("closing %s: %w", c.Name, err)
			}
			s.logger.Info("closed", "resource", c.Name)
			return nil
		})
	}
	return g.Wait()
}
