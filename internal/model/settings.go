package model

import (
	"github.com/google/uuid"
)

// DefaultBlacklistThreshold applies when a tenant has no settings row
// or the field was never set.
const DefaultBlacklistThreshold = 3

// TenantSettings holds per-tenant configuration the engine reads.
type TenantSettings struct {
	TenantID           uuid.UUID `db:"tenant_id" json:"tenant_id"`
	BlacklistThreshold int       `db:"blacklist_threshold" json:"blacklist_threshold"`
}
