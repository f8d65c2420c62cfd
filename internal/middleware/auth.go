package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aidar/crm-notify/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// ClientIDKey ключ контекста для идентификатора сервисного клиента
	ClientIDKey ContextKey = "client_id"
)

// AuthMiddleware создает middleware для валидации сервисных JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"missing authorization header"}}`, http.StatusUnauthorized)
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid authorization header format"}}`, http.StatusUnauthorized)
				return
			}

			token := parts[1]

			// Валидируем токен
			claims, err := authService.ValidateToken(token)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), ClientIDKey, claims.ClientID)

			// Вызываем следующий обработчик
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIDFromContext извлекает идентификатор клиента из контекста
func GetClientIDFromContext(ctx context.Context) string {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	if !ok {
		return ""
	}
	return clientID
}
