// Пакет server — HTTP-сервер files manager с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/gofilesmanager/internal/api/handlers"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/config"
)

// Handlers — набор обработчиков, монтируемых на маршруты.
type Handlers struct {
	Users  *handlers.UsersHandler
	Auth   *handlers.AuthHandler
	Files  *handlers.FilesHandler
	Health *handlers.HealthHandler
}

// Server — HTTP-сервер files manager.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// resolver нужен для X-Token middleware на защищённых маршрутах.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, resolver middleware.TokenResolver) *Server {
	router := chi.NewRouter()

	// Сквозные middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())

	// Открытые маршруты
	router.Post("/users", h.Users.PostNew)
	router.Get("/connect", h.Auth.GetConnect)
	router.Get("/status", h.Health.GetStatus)
	router.Get("/stats", h.Health.GetStats)
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Handle("/metrics", promhttp.Handler())

	// Маршруты под X-Token
	router.Group(func(r chi.Router) {
		r.Use(middleware.XTokenAuth(resolver))
		r.Get("/disconnect", h.Auth.GetDisconnect)
		r.Get("/users/me", h.Users.GetMe)
		r.Post("/files", h.Files.PostUpload)
		r.Get("/files", h.Files.GetIndex)
		r.Get("/files/{id}", h.Files.GetShow)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
