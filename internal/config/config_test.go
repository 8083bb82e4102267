package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// fmEnvKeys — все переменные окружения FM_* для чистого теста.
var fmEnvKeys = []string{
	"FM_PORT", "FM_DB_HOST", "FM_DB_PORT", "FM_DB_NAME",
	"FM_REDIS_HOST", "FM_REDIS_PORT", "FM_FOLDER_PATH",
	"FM_SESSION_TTL", "FM_USER_CACHE_SIZE", "FM_USER_CACHE_TTL",
	"FM_LOG_LEVEL", "FM_LOG_FORMAT", "FM_SHUTDOWN_TIMEOUT",
}

// clearEnv очищает все переменные FM_* и восстанавливает их после теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range fmEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			orig := v
			key := k
			t.Cleanup(func() { os.Setenv(key, orig) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port: ожидалось 5000, получено %d", cfg.Port)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost: ожидалось localhost, получено %s", cfg.DBHost)
	}
	if cfg.DBPort != 27017 {
		t.Errorf("DBPort: ожидалось 27017, получено %d", cfg.DBPort)
	}
	if cfg.DBName != "files_manager" {
		t.Errorf("DBName: ожидалось files_manager, получено %s", cfg.DBName)
	}
	if cfg.RedisPort != 6379 {
		t.Errorf("RedisPort: ожидалось 6379, получено %d", cfg.RedisPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL: ожидалось 24h, получено %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось info, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидалось json, получено %s", cfg.LogFormat)
	}
	if cfg.FolderPath == "" {
		t.Error("FolderPath: ожидалось временное значение по умолчанию")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FM_PORT", "8080")
	t.Setenv("FM_DB_HOST", "mongo.example.com")
	t.Setenv("FM_REDIS_HOST", "redis.example.com")
	t.Setenv("FM_SESSION_TTL", "1h")
	t.Setenv("FM_LOG_LEVEL", "debug")
	t.Setenv("FM_LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.DBHost != "mongo.example.com" {
		t.Errorf("DBHost: получено %s", cfg.DBHost)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL: ожидалось 1h, получено %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: ожидалось debug, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: ожидалось text, получено %s", cfg.LogFormat)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"некорректный порт", "FM_PORT", "not-a-number"},
		{"порт вне диапазона", "FM_PORT", "70000"},
		{"некорректный TTL", "FM_SESSION_TTL", "sometime"},
		{"отрицательный TTL", "FM_SESSION_TTL", "-1h"},
		{"некорректный уровень логов", "FM_LOG_LEVEL", "loud"},
		{"некорректный формат логов", "FM_LOG_FORMAT", "xml"},
		{"нулевой размер кэша", "FM_USER_CACHE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка для %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestConfig_MongoURI(t *testing.T) {
	cfg := &Config{DBHost: "db.local", DBPort: 27018}
	want := "mongodb://db.local:27018"
	if got := cfg.MongoURI(); got != want {
		t.Errorf("MongoURI: ожидалось %s, получено %s", want, got)
	}
}

func TestConfig_RedisAddr(t *testing.T) {
	cfg := &Config{RedisHost: "cache.local", RedisPort: 6380}
	want := "cache.local:6380"
	if got := cfg.RedisAddr(); got != want {
		t.Errorf("RedisAddr: ожидалось %s, получено %s", want, got)
	}
}
