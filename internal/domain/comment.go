package domain

import "time"

// Comment представляет комментарий к записи CRM.
// Тело комментария используется только для извлечения "@упоминаний".
type Comment struct {
	ID          int64     `json:"id"`
	Comment     string    `json:"comment"`
	CommentedBy string    `json:"commented_by"`
	CreatedAt   time.Time `json:"created_at"`
}
