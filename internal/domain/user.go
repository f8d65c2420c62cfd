package domain

import "time"

// User представляет пользователя CRM
type User struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	IsActive           bool       `json:"is_active"`
	HasMarketingAccess bool       `json:"has_marketing_access"`
	ActivationKey      string     `json:"-"`
	KeyExpires         *time.Time `json:"-"`
}
