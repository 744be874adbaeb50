// Package http serves the order API: the public shop routes and the staff
// admin routes, all JSON over POST except the location listing.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dely-backend/internal/auth"
	"dely-backend/internal/location"
	"dely-backend/internal/order/adapter/db"
	"dely-backend/internal/order/api/http/handle"
	"dely-backend/internal/order/app/services"
	"dely-backend/pkg/config"
	"dely-backend/pkg/logger"
	"dely-backend/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	mux   *http.ServeMux
	srv   *http.Server
	cfg   *config.Config
	pool  *pgxpool.Pool
	mq    *rabbitmq.RabbitMQ
	mylog logger.Logger
	ctx   context.Context
}

func NewServer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, mq *rabbitmq.RabbitMQ, mylog logger.Logger) *Server {
	return &Server{
		ctx:   ctx,
		cfg:   cfg,
		pool:  pool,
		mq:    mq,
		mylog: mylog,
		mux:   http.NewServeMux(),
	}
}

// Run configures routes and listens until the context is cancelled or the
// listener fails.
func (s *Server) Run() error {
	s.Configure()

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler: s.mux,
	}

	s.mylog.Action("server_started").With("port", s.cfg.HTTP.Port).Info("Server is running")

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop shuts the HTTP server down gracefully, then closes the pool and the
// broker connection.
func (s *Server) Stop(ctx context.Context) error {
	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	s.pool.Close()
	if err := s.mq.Close(); err != nil {
		s.mylog.Action("mq_close_failed").Error("Failed to close message broker", err)
		return fmt.Errorf("mq close: %w", err)
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

// Configure wires repositories, services and handlers, and registers routes.
func (s *Server) Configure() {
	orderRepo := db.NewOrderRepo(s.pool)
	locationRepo := location.NewRepo(s.pool)

	verifier := auth.NewVerifier(s.cfg.Auth.AccessTokenSecret)
	users := auth.NewDirectory(s.pool)

	orderService := services.NewOrderService(orderRepo, locationRepo, verifier, users, s.mq, s.mylog)
	locationService := location.NewService(locationRepo, s.mylog)

	orderHandler := handle.NewOrderHandler(orderService, s.mylog)
	locationHandler := handle.NewLocationHandler(locationService, s.mylog)

	s.mux.Handle("POST /shop/post-order", orderHandler.Create())
	s.mux.Handle("POST /shop/get-order-update", orderHandler.Status())
	s.mux.Handle("POST /shop/get-order-details", orderHandler.Details())
	s.mux.Handle("POST /shop/get-order-history", orderHandler.History())
	s.mux.Handle("GET /shop/locations", locationHandler.List())

	s.mux.Handle("POST /admin/get-orders", orderHandler.List())
	s.mux.Handle("POST /admin/change-order-status", orderHandler.ChangeStatus())
	s.mux.Handle("POST /admin/send-order-time", orderHandler.SendTime())
}
