package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/crm-notify/internal/service"
)

// AuthHandler обрабатывает выдачу сервисных токенов и активацию аккаунтов
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// TokenRequest представляет тело запроса на выдачу сервисного токена
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse представляет тело ответа с сервисным токеном
type TokenResponse struct {
	Token string `json:"token"`
}

// Token обрабатывает POST /auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.ClientID == "" || req.ClientSecret == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "client_id and client_secret are required")
		return
	}

	token, err := h.authService.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}

// ActivateResponse представляет ответ на успешную активацию
type ActivateResponse struct {
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Activate обрабатывает GET /auth/activate-user/{uid}/{token}/
// Форма пути совпадает со ссылками в уже отправленных письмах.
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	token := chi.URLParam(r, "token")

	if uid == "" || token == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "uid and token are required")
		return
	}

	user, err := h.userService.Activate(r.Context(), uid, token)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ActivateResponse{
		Email:    user.Email,
		IsActive: user.IsActive,
	})
}
