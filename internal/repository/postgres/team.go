package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/crm-notify/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает новую команду и возвращает ее ID
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (int64, error) {
	query := `
		INSERT INTO teams (name, description, org_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, team.Name, team.Description, team.OrgID).Scan(&id)
	if err != nil {
		// Check for unique constraint violation (team already exists)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return 0, domain.ErrTeamExists
		}
		return 0, err
	}

	return id, nil
}

// GetByName получает команду со всеми участниками
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	query := `
		SELECT id, name, description, org_id
		FROM teams
		WHERE name = $1
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, name).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.OrgID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	// Get all team members
	membersQuery := `
		SELECT u.id, u.username, u.email, u.is_active
		FROM users u
		JOIN team_users tu ON tu.user_id = u.id
		WHERE tu.team_id = $1
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, membersQuery, team.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.UserID, &member.Username, &member.Email, &member.IsActive); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	team.Members = members

	return &team, nil
}

// Exists проверяет существование команды
func (r *TeamRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE name = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, name).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return exists, nil
}

// AddMember добавляет пользователя в команду
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64) error {
	query := `
		INSERT INTO team_users (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, teamID, userID)
	return err
}
