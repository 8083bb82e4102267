// Пакет errors — конструкторы стандартных ошибок API files manager.
// Единый формат тела: {"error": "<message>"}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // конфликт имени со stdlib допустим внутри internal/api

import (
	"encoding/json"
	"net/http"
)

// Сообщения контракта API. Тексты фиксированы: клиенты сопоставляют
// их дословно, менять нельзя.
const (
	MsgUnauthorized    = "Unauthorized"
	MsgNotFound        = "Not found"
	MsgMissingEmail    = "Missing email"
	MsgMissingPassword = "Missing password"
	MsgAlreadyExist    = "Already exist"
	MsgMissingName     = "Missing name"
	MsgMissingType     = "Missing type"
	MsgMissingData     = "Missing data"
	MsgInvalidData     = "Invalid data"
	MsgParentNotFound  = "Parent not found"
	MsgParentNotFolder = "Parent is not a folder"
	MsgInternal        = "Internal server error"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки в стандартном формате.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// Unauthorized — 401. Единое сообщение: причина отказа не раскрывается.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
}

// NotFound — 404 ресурс не найден. Сообщение одинаково для
// отсутствующей записи и записи чужого владельца.
func NotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, MsgNotFound)
}

// InternalError — 500. Детали остаются в серверном логе.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternal)
}
