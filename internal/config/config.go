// Пакет config — загрузка и валидация конфигурации files manager
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации files manager.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Хост MongoDB
	DBHost string
	// Порт MongoDB
	DBPort int
	// Имя базы данных
	DBName string
	// Хост Redis
	RedisHost string
	// Порт Redis
	RedisPort int
	// Корневая директория blob-хранилища
	FolderPath string
	// Время жизни сессии
	SessionTTL time.Duration
	// Размер LRU-кэша пользователей
	UserCacheSize int
	// TTL записи LRU-кэша пользователей
	UserCacheTTL time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// FM_PORT — порт HTTP-сервера (по умолчанию 5000)
	port, err := getEnvInt("FM_PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("FM_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("FM_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// FM_DB_HOST — хост MongoDB (по умолчанию localhost)
	cfg.DBHost = getEnvDefault("FM_DB_HOST", "localhost")

	// FM_DB_PORT — порт MongoDB (по умолчанию 27017)
	cfg.DBPort, err = getEnvInt("FM_DB_PORT", 27017)
	if err != nil {
		return nil, fmt.Errorf("FM_DB_PORT: %w", err)
	}

	// FM_DB_NAME — имя базы данных (по умолчанию files_manager)
	cfg.DBName = getEnvDefault("FM_DB_NAME", "files_manager")

	// FM_REDIS_HOST — хост Redis (по умолчанию localhost)
	cfg.RedisHost = getEnvDefault("FM_REDIS_HOST", "localhost")

	// FM_REDIS_PORT — порт Redis (по умолчанию 6379)
	cfg.RedisPort, err = getEnvInt("FM_REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("FM_REDIS_PORT: %w", err)
	}

	// FM_FOLDER_PATH — корень blob-хранилища
	// (по умолчанию <temp>/files_manager)
	cfg.FolderPath = getEnvDefault("FM_FOLDER_PATH",
		filepath.Join(os.TempDir(), "files_manager"))

	// FM_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("FM_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FM_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("FM_SESSION_TTL: значение должно быть положительным")
	}

	// FM_USER_CACHE_SIZE — размер LRU-кэша пользователей (по умолчанию 1024)
	cfg.UserCacheSize, err = getEnvInt("FM_USER_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FM_USER_CACHE_SIZE: %w", err)
	}
	if cfg.UserCacheSize <= 0 {
		return nil, fmt.Errorf("FM_USER_CACHE_SIZE: значение должно быть положительным")
	}

	// FM_USER_CACHE_TTL — TTL записи кэша пользователей (по умолчанию 1m)
	cfg.UserCacheTTL, err = getEnvDuration("FM_USER_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FM_USER_CACHE_TTL: %w", err)
	}
	if cfg.UserCacheTTL <= 0 {
		return nil, fmt.Errorf("FM_USER_CACHE_TTL: значение должно быть положительным")
	}

	// FM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FM_LOG_LEVEL: %w", err)
	}

	// FM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// FM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// MongoURI возвращает строку подключения к MongoDB.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%d", c.DBHost, c.DBPort)
}

// RedisAddr возвращает адрес Redis в формате host:port.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 24h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
