// Пакет handlers — HTTP-обработчики files manager.
// handler.go — общие вспомогательные функции ответов.
package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON сериализует v в тело ответа с указанным статусом.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
