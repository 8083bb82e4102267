// Пакет sessions — хранилище сессионных токенов в Redis.
// Токен — opaque uuid v4; маппинг auth_<token> → userID живёт
// ровно TTL сессии, истечение обрабатывает сам Redis (EX),
// отдельный sweeper не нужен.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix — префикс ключей сессий в Redis.
const keyPrefix = "auth_"

// ErrNoSession — активная сессия для токена не найдена
// (токен неизвестен, отозван или истёк).
var ErrNoSession = errors.New("активная сессия не найдена")

// Store — хранилище сессий поверх Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New создаёт хранилище сессий. Проверяет доступность Redis через PING.
func New(ctx context.Context, addr string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis %s: %w", addr, err)
	}
	return &Store{client: client, ttl: ttl}, nil
}

// NewWithClient создаёт хранилище поверх готового клиента.
// Используется в тестах (testcontainers / miniredis-подобные стенды).
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Issue выпускает новый токен для пользователя и сохраняет маппинг
// с TTL сессии. Возвращает токен.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("ошибка записи сессии: %w", err)
	}
	return token, nil
}

// Resolve возвращает userID активной сессии или ErrNoSession.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	return userID, nil
}

// Revoke удаляет сессию. Возвращает ErrNoSession, если активной
// сессии для токена не было.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoSession
	}
	deleted, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	if deleted == 0 {
		return ErrNoSession
	}
	return nil
}

// Ping проверяет доступность Redis (для /status и readiness probe).
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close закрывает подключение к Redis.
func (s *Store) Close() error {
	return s.client.Close()
}
