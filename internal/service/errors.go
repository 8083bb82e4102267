// Пакет service — бизнес-логика files manager.
// errors.go — типизированная ошибка сервисного слоя с HTTP-кодом.
package service

import (
	"fmt"
	"net/http"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
)

// Error — ошибка сервисного слоя. Несёт HTTP-статус и сообщение
// контракта; внутренние детали в ответ не попадают, они остаются
// в серверном логе.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// errValidation — 400 с сообщением по конкретному полю.
func errValidation(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

// errUnauthorized — 401, единое сообщение для всех причин отказа.
func errUnauthorized() *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: apierrors.MsgUnauthorized}
}

// errNotFound — 404, одинаков для отсутствующей и чужой записи.
func errNotFound() *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: apierrors.MsgNotFound}
}

// errInternal — 500 без деталей.
func errInternal() *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: apierrors.MsgInternal}
}
