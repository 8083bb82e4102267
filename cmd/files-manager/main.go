// Точка входа files manager — сервиса каталога файлов с сессиями
// и локальным blob-хранилищем.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigkaa/gofilesmanager/internal/api/handlers"
	"github.com/bigkaa/gofilesmanager/internal/config"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/server"
	"github.com/bigkaa/gofilesmanager/internal/service"
	"github.com/bigkaa/gofilesmanager/internal/storage/blobstore"
	"github.com/bigkaa/gofilesmanager/internal/storage/sessions"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("files manager запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("db", cfg.DBName),
		slog.String("folder_path", cfg.FolderPath),
	)

	ctx := context.Background()

	// --- Инициализация компонентов ---

	// 1. Хранилище сессий (Redis)
	sessionStore, err := sessions.New(ctx, cfg.RedisAddr(), cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sessionStore.Close()

	// 2. Документное хранилище (MongoDB) + индексы
	client, err := repository.Connect(ctx, cfg.MongoURI(), cfg.DBName, logger)
	if err != nil {
		logger.Error("Ошибка подключения к MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Ошибка отключения от MongoDB", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.DBName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Error("Ошибка создания индексов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Blob-хранилище
	blobs, err := blobstore.New(cfg.FolderPath)
	if err != nil {
		logger.Error("Ошибка инициализации blob-хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Репозитории
	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// 5. Сервисы
	authSvc := service.NewAuthService(sessionStore, userRepo, cfg.UserCacheSize, cfg.UserCacheTTL, logger)
	fileSvc := service.NewFileService(fileRepo, blobs, logger)

	// 6. HTTP handlers
	dbPinger := handlers.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	h := server.Handlers{
		Users:  handlers.NewUsersHandler(authSvc),
		Auth:   handlers.NewAuthHandler(authSvc),
		Files:  handlers.NewFilesHandler(fileSvc),
		Health: handlers.NewHealthHandler(sessionStore, dbPinger, blobs.Root(), userRepo, fileRepo),
	}

	// 7. HTTP-сервер
	srv := server.New(cfg, logger, h, authSvc)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
