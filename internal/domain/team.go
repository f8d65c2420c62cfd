package domain

// Team представляет группу пользователей (команду)
type Team struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	OrgID       *int64       `json:"org_id,omitempty"`
	Members     []TeamMember `json:"members"`
}

// TeamMember представляет пользователя в составе команды (используется в Team.Members)
type TeamMember struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
