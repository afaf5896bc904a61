package model

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	Base
	TenantID      uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Name          string     `db:"name" json:"name"`
	Phone         string     `db:"phone" json:"phone"`
	Email         string     `db:"email" json:"email,omitempty"`
	NoShowCount   int        `db:"no_show_count" json:"no_show_count"`
	IsBlacklisted bool       `db:"is_blacklisted" json:"is_blacklisted"`
	BlacklistedAt *time.Time `db:"blacklisted_at" json:"blacklisted_at,omitempty"`
}
