package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/crm-notify/internal/domain"
)

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, is_active, has_marketing_access, activation_key, key_expires`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var activationKey *string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.IsActive,
		&user.HasMarketingAccess,
		&activationKey,
		&user.KeyExpires,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if activationKey != nil {
		user.ActivationKey = *activationKey
	}
	return &user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetActiveByUsernames возвращает активных пользователей с указанными именами
func (r *UserRepository) GetActiveByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = ANY($1) AND is_active = true
		ORDER BY username
	`

	rows, err := r.db.Query(ctx, query, usernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// SetActivationKey сохраняет ключ активации и срок его действия
func (r *UserRepository) SetActivationKey(ctx context.Context, userID int64, key string, expires time.Time) error {
	query := `
		UPDATE users
		SET activation_key = $1, key_expires = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, key, expires, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ClearActivationKey очищает использованный ключ активации
func (r *UserRepository) ClearActivationKey(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET activation_key = NULL, key_expires = NULL, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// SetIsActive обновляет статус активности пользователя
func (r *UserRepository) SetIsActive(ctx context.Context, userID int64, isActive bool) error {
	query := `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, isActive, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
