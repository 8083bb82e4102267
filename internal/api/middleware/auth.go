// auth.go — middleware аутентификации по заголовку X-Token.
// Токен обменивается на пользователя через AuthService (сессионный
// кэш + директория пользователей); пользователь и токен кладутся
// в контекст запроса. Любой сбой цепочки — единый 401 Unauthorized,
// какая именно проверка не прошла, не раскрывается.
package middleware

import (
	"context"
	"net/http"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUser — ключ аутентифицированного пользователя.
	ContextKeyUser contextKey = "auth_user"
	// ContextKeyToken — ключ сессионного токена (нужен /disconnect).
	ContextKeyToken contextKey = "auth_token"
)

// TokenResolver — обмен токена на пользователя активной сессии.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, *service.Error)
}

// XTokenAuth возвращает middleware, требующий валидный X-Token.
// Запрос без активной сессии (или с сессией удалённого пользователя)
// до обработчика не доходит.
func XTokenAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Token")
			if token == "" {
				apierrors.Unauthorized(w)
				return
			}

			user, svcErr := resolver.ResolveToken(r.Context(), token)
			if svcErr != nil {
				apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает аутентифицированного пользователя
// или nil, если middleware не отработал.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(ContextKeyUser).(*model.User)
	return user
}

// TokenFromContext возвращает сессионный токен запроса.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeyToken).(string)
	return token
}
