package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
)

// UserRepository — доступ к коллекции users (директория пользователей).
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create регистрирует нового пользователя. Дубликат email приводит
// к ErrAlreadyExists: уникальность гарантирует индекс, отдельная
// проверка "существует ли" не нужна и не подвержена гонкам.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	user := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("неожиданный тип InsertedID: %T", res.InsertedID)
	}
	user.ID = id
	return user, nil
}

// FindByCredentials возвращает пользователя по email и хэшу пароля.
// Любое несовпадение — ErrNotFound: неизвестный email и неверный
// пароль для вызывающего неразличимы.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{
		"email":           email,
		"hashed_password": passwordHash,
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &user, nil
}

// FindByID возвращает пользователя по идентификатору или ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &user, nil
}

// Count возвращает количество зарегистрированных пользователей (/stats).
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	return n, nil
}
