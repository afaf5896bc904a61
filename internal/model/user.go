package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff or owner account that can sign in to the tenant panel.
type User struct {
	Base
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	UserType     UserType   `db:"user_type" json:"user_type"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}
