package domain

// EventKind определяет тип события жизненного цикла пользователя
type EventKind string

// Типы событий, передаваемых через очередь задач
const (
	EventUserRegistered   EventKind = "user.registered"
	EventUserStatusChange EventKind = "user.status_changed"
	EventUserDeleted      EventKind = "user.deleted"
	EventUserMentioned    EventKind = "user.mentioned"
	EventPasswordReset    EventKind = "user.password_reset"
	EventActivationResend EventKind = "user.activation_resend"
)

// NotificationEvent представляет событие уведомления в очереди.
// Через границу очереди передаются только примитивные идентификаторы.
type NotificationEvent struct {
	EventID         string    `json:"event_id"`
	Kind            EventKind `json:"kind"`
	UserID          int64     `json:"user_id,omitempty"`
	UserEmail       string    `json:"user_email,omitempty"`
	StatusChangedBy string    `json:"status_changed_by,omitempty"`
	DeletedBy       string    `json:"deleted_by,omitempty"`
	CommentID       int64     `json:"comment_id,omitempty"`
	CalledFrom      string    `json:"called_from,omitempty"`
}
