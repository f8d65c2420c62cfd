package domain

import "errors"

// Доменные ошибки сервиса уведомлений
var (
	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrCommentNotFound возвращается когда комментарий не найден
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTeamExists возвращается при попытке создать уже существующую команду
	ErrTeamExists = errors.New("team already exists")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidToken возвращается когда токен активации или сброса пароля невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired возвращается когда срок действия токена истек
	ErrTokenExpired = errors.New("token expired")

	// ErrUnknownEvent возвращается при неизвестном типе события в очереди
	ErrUnknownEvent = errors.New("unknown event kind")

	// ErrUnauthorized возвращается при неудачной аутентификации сервисного клиента
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeTeamExists    ErrorCode = "TEAM_EXISTS"    // Команда уже существует
	CodeNotFound      ErrorCode = "NOT_FOUND"      // Ресурс не найден
	CodeInvalidToken  ErrorCode = "INVALID_TOKEN"  // Токен невалиден
	CodeTokenExpired  ErrorCode = "TOKEN_EXPIRED"  // Срок действия токена истек
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"   // Аутентификация не пройдена
	CodeInternalError ErrorCode = "INTERNAL_ERROR" // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrTeamExists):
		return CodeTeamExists
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return CodeInvalidToken
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCommentNotFound), errors.Is(err, ErrTeamNotFound):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}
