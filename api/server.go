package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shoecreatify/shoecreatify-api/config"
	"go.uber.org/zap"
)

const shutdownGrace = 15 * time.Second

type Server struct {
	server *http.Server
	log    *zap.Logger
}

func NewServer(cfg *config.Configuration, logger *zap.Logger, deps *Dependencies) (*Server, error) {
	api, err := compose(logger.Named("api"), cfg, deps)
	if err != nil {
		return nil, err
	}
	bind := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	srv := http.Server{
		Addr:              bind,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		server: &srv,
		log:    logger,
	}, nil
}

// Handler exposes the composed router
func (srv *Server) Handler() http.Handler {
	return srv.server.Handler
}

// Start runs ListenAndServe on the http.Server with graceful shutdown.
// It returns once the server stopped, either after a signal or when ctx is done.
func (srv *Server) Start(ctx context.Context) error {
	srv.log.Info("starting server")
	errs := make(chan error, 1)
	go func() {
		if err := srv.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	srv.log.Info("listening", zap.String("addr", srv.server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-errs:
		return err
	case sig := <-quit:
		srv.log.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		srv.log.Info("shutting down", zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.server.Shutdown(shutdownCtx); err != nil {
		srv.log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	srv.log.Info("graceful shutdown completed")
	return nil
}
