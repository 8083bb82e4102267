// auth.go — HTTP handlers входа и выхода: /connect и /disconnect.
package handlers

import (
	"context"
	"net/http"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// SessionIssuer — вход по учётным данным и отзыв сессии.
type SessionIssuer interface {
	Login(ctx context.Context, email, password string) (string, *service.Error)
	Logout(ctx context.Context, token string) *service.Error
}

// AuthHandler — обработчик endpoints аутентификации.
type AuthHandler struct {
	auth SessionIssuer
}

// NewAuthHandler создаёт обработчик аутентификации.
func NewAuthHandler(auth SessionIssuer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// GetConnect обрабатывает GET /connect: обмен Basic-учётных данных
// на сессионный токен. Любое несовпадение — единый 401.
func (h *AuthHandler) GetConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	token, svcErr := h.auth.Login(r.Context(), email, password)
	if svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetDisconnect обрабатывает GET /disconnect: отзыв текущей сессии.
// Токен берётся из контекста (middleware.XTokenAuth уже проверил его).
func (h *AuthHandler) GetDisconnect(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token == "" {
		apierrors.Unauthorized(w)
		return
	}

	if svcErr := h.auth.Logout(r.Context(), token); svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
