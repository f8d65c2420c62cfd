package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/crm-notify/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamExists):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeTeamExists), "team already exists")
	case errors.Is(err, domain.ErrTokenExpired):
		RespondWithError(w, r, http.StatusGone, string(domain.CodeTokenExpired), "token expired")
	case errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeInvalidToken), "invalid token")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrTeamNotFound), errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternalError), "internal server error")
	}
}
