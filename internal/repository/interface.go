package repository

import (
	"context"
	"time"

	"github.com/aidar/crm-notify/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID int64) (*domain.User, error)

	// GetByEmail получает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetActiveByUsernames возвращает активных пользователей с указанными именами
	GetActiveByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error)

	// SetActivationKey сохраняет ключ активации и срок его действия
	SetActivationKey(ctx context.Context, userID int64, key string, expires time.Time) error

	// ClearActivationKey очищает использованный ключ активации
	ClearActivationKey(ctx context.Context, userID int64) error

	// SetIsActive обновляет статус активности пользователя
	SetIsActive(ctx context.Context, userID int64, isActive bool) error
}

// CommentRepository определяет методы для работы с комментариями
type CommentRepository interface {
	// GetByID получает комментарий по ID
	GetByID(ctx context.Context, commentID int64) (*domain.Comment, error)

	// Create создает новый комментарий
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает новую команду и возвращает ее ID
	Create(ctx context.Context, team *domain.Team) (int64, error)

	// GetByName получает команду со всеми участниками
	GetByName(ctx context.Context, name string) (*domain.Team, error)

	// Exists проверяет существование команды
	Exists(ctx context.Context, name string) (bool, error)

	// AddMember добавляет пользователя в команду
	AddMember(ctx context.Context, teamID, userID int64) error
}
