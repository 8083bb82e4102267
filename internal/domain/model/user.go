package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User — учётная запись пользователя. Создаётся при регистрации,
// далее неизменяема. Пароль хранится только в виде одностороннего хэша.
type User struct {
	// ID — идентификатор пользователя (ObjectID)
	ID bson.ObjectID `bson:"_id,omitempty"`

	// Email — адрес электронной почты, уникален (unique index)
	Email string `bson:"email"`

	// PasswordHash — sha1-хэш пароля в hex
	PasswordHash string `bson:"hashed_password"`

	// CreatedAt — момент регистрации (UTC)
	CreatedAt time.Time `bson:"created_at"`
}
