package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SetIsActiveRequest представляет тело запроса для установки флага активности
type SetIsActiveRequest struct {
	UserID    int64  `json:"user_id"`
	IsActive  bool   `json:"is_active"`
	ChangedBy string `json:"changed_by"`
}

// SetIsActiveResponse представляет ответ на установку флага активности
type SetIsActiveResponse struct {
	User *domain.User `json:"user"`
}

// SetIsActive обрабатывает POST /users/setIsActive.
// Помимо обновления флага ставит в очередь письмо о смене статуса.
func (h *UserHandler) SetIsActive(w http.ResponseWriter, r *http.Request) {
	var req SetIsActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserID == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	user, err := h.userService.SetIsActive(r.Context(), req.UserID, req.IsActive, req.ChangedBy)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SetIsActiveResponse{User: user})
}
