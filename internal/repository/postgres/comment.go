package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/crm-notify/internal/domain"
)

// CommentRepository реализует repository.CommentRepository для PostgreSQL
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository создает новый экземпляр CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// GetByID получает комментарий по ID
func (r *CommentRepository) GetByID(ctx context.Context, commentID int64) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.comment, u.username, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.commented_by
		WHERE c.id = $1
	`

	var comment domain.Comment
	err := r.db.QueryRow(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.Comment,
		&comment.CommentedBy,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}

	return &comment, nil
}

// Create создает новый комментарий
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	query := `
		INSERT INTO comments (comment, commented_by)
		VALUES ($1, (SELECT id FROM users WHERE username = $2))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, comment.Comment, comment.CommentedBy).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}
