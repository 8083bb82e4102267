// health.go — health endpoints и статус/статистика сервиса.
// /status и /stats — контракт исходной системы; /health/live и
// /health/ready — probes для Kubernetes.
package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/config"
)

// statusFail — строковая константа для статуса "fail" в health checks.
const statusFail = "fail"

// Pinger — проверка доступности внешнего хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc — адаптер функции к интерфейсу Pinger.
type PingerFunc func(ctx context.Context) error

// Ping реализует Pinger.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Counter — подсчёт записей коллекции (для /stats).
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthHandler реализует /status, /stats, /health/live, /health/ready.
type HealthHandler struct {
	version string
	// redis — проверка кэша сессий
	redis Pinger
	// db — проверка документного хранилища
	db Pinger
	// blobRoot — корень blob-хранилища (проверка FS в readiness)
	blobRoot string
	users    Counter
	files    Counter
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(redis, db Pinger, blobRoot string, users, files Counter) *HealthHandler {
	return &HealthHandler{
		version:  config.Version,
		redis:    redis,
		db:       db,
		blobRoot: blobRoot,
		users:    users,
		files:    files,
	}
}

// GetStatus обрабатывает GET /status: доступность Redis и MongoDB.
// Всегда 200; недоступное хранилище отражается значением false.
func (h *HealthHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": h.redis.Ping(ctx) == nil,
		"db":    h.db.Ping(ctx) == nil,
	})
}

// GetStats обрабатывает GET /stats: количество пользователей и записей каталога.
func (h *HealthHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Count(r.Context())
	if err != nil {
		apierrors.InternalError(w)
		return
	}
	files, err := h.files.Count(r.Context())
	if err != nil {
		apierrors.InternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}

// HealthLive обрабатывает GET /health/live.
// Возвращает 200, если процесс жив. Не проверяет зависимости.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "files-manager",
	})
}

// HealthReady обрабатывает GET /health/ready.
// Проверяет: Redis, MongoDB, директорию blob-хранилища.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	overallStatus := "ok"
	httpStatus := http.StatusOK

	checks := map[string]string{
		"redis":      "ok",
		"db":         "ok",
		"filesystem": "ok",
	}

	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = statusFail
	}
	if err := h.db.Ping(ctx); err != nil {
		checks["db"] = statusFail
	}
	if info, err := os.Stat(h.blobRoot); err != nil || !info.IsDir() {
		checks["filesystem"] = statusFail
	}

	for _, status := range checks {
		if status == statusFail {
			overallStatus = statusFail
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": overallStatus,
		"checks": checks,
	})
}
