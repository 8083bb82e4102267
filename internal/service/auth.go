// auth.go — регистрация, вход/выход и резолв сессионных токенов.
package service

import (
	"context"
	"crypto/sha1" //nolint:gosec // контракт исходной системы: sha1-хэш пароля
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/v2/bson"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/storage/sessions"
)

// SessionStore — выпуск, проверка и отзыв сессионных токенов.
type SessionStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// UserDirectory — директория пользователей (внешний коллаборатор
// с точки зрения каталога файлов).
type UserDirectory interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	FindByCredentials(ctx context.Context, email, passwordHash string) (*model.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
}

// AuthService — аутентификация и жизненный цикл сессий.
// Резолв токена идёт через expirable LRU-кэш пользователей:
// горячий путь (каждый запрос с X-Token) не ходит в MongoDB
// повторно. Удалённый пользователь может отдаваться из кэша
// не дольше TTL записи — ограниченная, принятая неактуальность.
type AuthService struct {
	store  SessionStore
	users  UserDirectory
	cache  *expirable.LRU[string, *model.User]
	logger *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
// cacheSize и cacheTTL задают параметры LRU-кэша пользователей.
func NewAuthService(store SessionStore, users UserDirectory, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		users:  users,
		cache:  expirable.NewLRU[string, *model.User](cacheSize, nil, cacheTTL),
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// HashPassword возвращает односторонний хэш пароля (sha1 hex).
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Register создаёт нового пользователя.
// Пустой email / пароль и занятый email — ValidationError контракта.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, *Error) {
	if email == "" {
		return nil, errValidation(apierrors.MsgMissingEmail)
	}
	if password == "" {
		return nil, errValidation(apierrors.MsgMissingPassword)
	}

	user, err := s.users.Create(ctx, email, HashPassword(password))
	observeOperation("register", err)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, errValidation(apierrors.MsgAlreadyExist)
	}
	if err != nil {
		s.logger.Error("Ошибка регистрации пользователя", slog.String("error", err.Error()))
		return nil, errInternal()
	}
	return user, nil
}

// Login проверяет учётные данные и выпускает сессионный токен.
// Неизвестный email и неверный пароль неразличимы: в обоих случаях
// Unauthorized без уточнений.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *Error) {
	if email == "" || password == "" {
		return "", errUnauthorized()
	}

	user, err := s.users.FindByCredentials(ctx, email, HashPassword(password))
	if errors.Is(err, repository.ErrNotFound) {
		observeOperation("login", err)
		return "", errUnauthorized()
	}
	if err != nil {
		observeOperation("login", err)
		s.logger.Error("Ошибка проверки учётных данных", slog.String("error", err.Error()))
		return "", errInternal()
	}

	token, err := s.store.Issue(ctx, user.ID.Hex())
	observeOperation("login", err)
	if err != nil {
		s.logger.Error("Ошибка выпуска токена", slog.String("error", err.Error()))
		return "", errInternal()
	}
	return token, nil
}

// Logout отзывает сессию. Неизвестный токен — Unauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) *Error {
	err := s.store.Revoke(ctx, token)
	observeOperation("logout", err)
	if errors.Is(err, sessions.ErrNoSession) {
		return errUnauthorized()
	}
	if err != nil {
		s.logger.Error("Ошибка отзыва сессии", slog.String("error", err.Error()))
		return errInternal()
	}
	return nil
}

// ResolveToken возвращает пользователя активной сессии.
// Любой сбой цепочки токен → сессия → пользователь (включая сессию,
// ссылающуюся на удалённого пользователя) — Unauthorized, не паника.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, *Error) {
	userID, err := s.store.Resolve(ctx, token)
	if errors.Is(err, sessions.ErrNoSession) {
		return nil, errUnauthorized()
	}
	if err != nil {
		s.logger.Error("Ошибка чтения сессии", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	if user, ok := s.cache.Get(userID); ok {
		return user, nil
	}

	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		// Повреждённое значение в кэше сессий приравнивается
		// к отсутствию сессии.
		s.logger.Warn("Некорректный userID в сессии", slog.String("user_id", userID))
		return nil, errUnauthorized()
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUnauthorized()
	}
	if err != nil {
		s.logger.Error("Ошибка поиска пользователя сессии", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	s.cache.Add(userID, user)
	return user, nil
}
