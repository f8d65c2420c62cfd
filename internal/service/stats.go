package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stats represents operator-facing counters for the notification service
type Stats struct {
	TotalUsers         int `json:"total_users"`
	ActiveUsers        int `json:"active_users"`
	PendingActivations int `json:"pending_activations"`
	Teams              int `json:"teams"`
	Comments           int `json:"comments"`
}

// StatsService handles statistics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns overall statistics
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_active = true) AS active_users,
			(SELECT COUNT(*) FROM users
				WHERE activation_key IS NOT NULL AND key_expires > NOW()) AS pending_activations,
			(SELECT COUNT(*) FROM teams) AS teams,
			(SELECT COUNT(*) FROM comments) AS comments
	`

	err := s.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.PendingActivations,
		&stats.Teams,
		&stats.Comments,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
