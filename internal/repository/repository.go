// Пакет repository — слой доступа к MongoDB для files manager.
// Каталог метаданных (files) и директория пользователей (users) —
// обычные коллекции документов, запись одного документа атомарна,
// многодокументные транзакции не используются и не нужны.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена (или принадлежит другому владельцу:
	// существование чужих записей не раскрывается).
	ErrNotFound = errors.New("запись не найдена")
	// ErrNotAFolder — запись существует, но не является папкой.
	ErrNotAFolder = errors.New("запись не является папкой")
	// ErrAlreadyExists — нарушение уникальности (email уже занят).
	ErrAlreadyExists = errors.New("запись уже существует")
)

// Имена коллекций.
const (
	usersCollection = "users"
	filesCollection = "files"
)

// Connect создаёт клиент MongoDB и проверяет доступность через ping.
func Connect(ctx context.Context, uri, dbName string, logger *slog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}

	logger.Info("Подключение к MongoDB установлено",
		slog.String("uri", uri),
		slog.String("database", dbName),
	)

	return client, nil
}

// EnsureIndexes создаёт индексы, на которые опирается код:
//   - users: уникальный индекс по email (свойство "Already exist"
//     обеспечивается базой, а не проверкой перед вставкой);
//   - files: составной индекс owner_id+parent_id для листинга.
//
// Выполняется при старте; повторный вызов идемпотентен.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ошибка создания индекса users.email: %w", err)
	}

	_, err = db.Collection(filesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "parent_id", Value: 1},
			{Key: "_id", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("ошибка создания индекса files.owner_parent: %w", err)
	}

	return nil
}
