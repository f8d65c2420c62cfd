package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/crm-notify/internal/service"
)

// NotifyHandler обрабатывает эндпоинты постановки уведомлений в очередь
type NotifyHandler struct {
	notifyService *service.NotifyService
}

// NewNotifyHandler создает новый NotifyHandler
func NewNotifyHandler(notifyService *service.NotifyService) *NotifyHandler {
	return &NotifyHandler{
		notifyService: notifyService,
	}
}

// EnqueuedResponse представляет ответ на постановку события в очередь
type EnqueuedResponse struct {
	EventID string `json:"event_id"`
}

// RegistrationRequest представляет тело запроса на письмо активации
type RegistrationRequest struct {
	UserID int64 `json:"user_id"`
}

// Registration обрабатывает POST /notify/registration
func (h *NotifyHandler) Registration(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserID == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	eventID, err := h.notifyService.UserRegistered(r.Context(), req.UserID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}

// StatusChangeRequest представляет тело запроса на письмо о смене статуса
type StatusChangeRequest struct {
	UserID    int64  `json:"user_id"`
	ChangedBy string `json:"status_changed_by"`
}

// StatusChange обрабатывает POST /notify/status
func (h *NotifyHandler) StatusChange(w http.ResponseWriter, r *http.Request) {
	var req StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserID == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	eventID, err := h.notifyService.UserStatusChanged(r.Context(), req.UserID, req.ChangedBy)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}

// DeletionRequest представляет тело запроса на письмо об удалении аккаунта
type DeletionRequest struct {
	UserEmail string `json:"user_email"`
	DeletedBy string `json:"deleted_by"`
}

// Deletion обрабатывает POST /notify/deletion
func (h *NotifyHandler) Deletion(w http.ResponseWriter, r *http.Request) {
	var req DeletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserEmail == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_email is required")
		return
	}

	eventID, err := h.notifyService.UserDeleted(r.Context(), req.UserEmail, req.DeletedBy)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}

// MentionRequest представляет тело запроса на письма об упоминаниях
type MentionRequest struct {
	CommentID  int64  `json:"comment_id"`
	CalledFrom string `json:"called_from"`
}

// Mention обрабатывает POST /notify/mention
func (h *NotifyHandler) Mention(w http.ResponseWriter, r *http.Request) {
	var req MentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.CommentID == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "comment_id is required")
		return
	}

	eventID, err := h.notifyService.UserMentioned(r.Context(), req.CommentID, req.CalledFrom)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}

// EmailRequest представляет тело запроса с единственным email полем
type EmailRequest struct {
	UserEmail string `json:"user_email"`
}

// PasswordReset обрабатывает POST /notify/password-reset
func (h *NotifyHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserEmail == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_email is required")
		return
	}

	eventID, err := h.notifyService.PasswordResetRequested(r.Context(), req.UserEmail)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}

// ResendActivation обрабатывает POST /notify/resend-activation
func (h *NotifyHandler) ResendActivation(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserEmail == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_email is required")
		return
	}

	eventID, err := h.notifyService.ActivationResendRequested(r.Context(), req.UserEmail)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, EnqueuedResponse{EventID: eventID})
}
