// users.go — HTTP handlers учётных записей: регистрация и /users/me.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// Registrar — регистрация пользователей.
type Registrar interface {
	Register(ctx context.Context, email, password string) (*model.User, *service.Error)
}

// userResponse — проекция User для клиента: только id и email,
// хэш пароля не отдаётся.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UsersHandler — обработчик endpoints учётных записей.
type UsersHandler struct {
	registrar Registrar
}

// NewUsersHandler создаёт обработчик учётных записей.
func NewUsersHandler(registrar Registrar) *UsersHandler {
	return &UsersHandler{registrar: registrar}
}

// PostNew обрабатывает POST /users: регистрация нового пользователя.
// 201 {id,email} либо 400 Missing email / Missing password / Already exist.
func (h *UsersHandler) PostNew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, apierrors.MsgMissingEmail)
		return
	}

	user, svcErr := h.registrar.Register(r.Context(), req.Email, req.Password)
	if svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
	})
}

// GetMe обрабатывает GET /users/me: текущий пользователь сессии.
// Аутентификацию выполняет middleware.XTokenAuth.
func (h *UsersHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		apierrors.Unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
	})
}
