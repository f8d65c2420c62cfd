package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// AddTeamResponse представляет ответ на создание команды
type AddTeamResponse struct {
	Team *domain.Team `json:"team"`
}

// AddTeam обрабатывает POST /team/add
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	var team domain.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Валидация запроса
	if team.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}

	// Создаем команду
	createdTeam, err := h.teamService.AddTeam(r.Context(), &team)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AddTeamResponse{Team: createdTeam})
}

// GetTeam обрабатывает GET /team/get?name=...
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "name query parameter is required")
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), name)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}
