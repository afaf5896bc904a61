package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether s is one of the five known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusNoShow:
		return true
	}
	return false
}

// Settled reports whether the status belongs to the settled set. An
// appointment entering this set has its package unit deducted or its
// revenue transaction recorded; leaving it via cancellation refunds
// the deduction.
func (s AppointmentStatus) Settled() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusCompleted
}

// PackageRef links an appointment to the package entitlement it was
// settled against. Present iff the visit was package-funded rather
// than paid directly.
type PackageRef struct {
	UsageID           uuid.UUID `json:"usageId"`
	CustomerPackageID uuid.UUID `json:"customerPackageId"`
	PackageName       string    `json:"packageName"`
}

// Value stores the reference as a JSON object.
func (r *PackageRef) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan decodes the stored package reference. Legacy rows hold either a
// JSON object or a JSON string containing an encoded object; both forms
// decode to the same struct. Anything undecodable scans as absent so a
// corrupt reference degrades to a direct-payment appointment instead of
// failing the row load.
func (r *PackageRef) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		raw = []byte(inner)
	}

	var decoded PackageRef
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	if decoded.UsageID == uuid.Nil {
		return nil
	}
	*r = decoded
	return nil
}

type Appointment struct {
	Base
	TenantID      uuid.UUID         `db:"tenant_id" json:"tenant_id"`
	CustomerID    uuid.UUID         `db:"customer_id" json:"customer_id"`
	StaffID       uuid.UUID         `db:"staff_id" json:"staff_id"`
	ServiceID     uuid.UUID         `db:"service_id" json:"service_id"`
	CustomerName  string            `db:"customer_name" json:"customer_name"`
	CustomerPhone string            `db:"customer_phone" json:"customer_phone"`
	ServiceName   string            `db:"service_name" json:"service_name"`
	Date          string            `db:"date" json:"date"` // YYYY-MM-DD, tenant-local calendar day
	Time          string            `db:"time" json:"time"` // HH:MM, tenant-local
	Status        AppointmentStatus `db:"status" json:"status"`
	Price         float64           `db:"price" json:"price"`
	PaymentType   string            `db:"payment_type" json:"payment_type"`
	PackageInfo   *PackageRef       `db:"package_info" json:"package_info,omitempty"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
}

// PackageFunded reports whether the appointment's cost settles against
// a package entitlement instead of a cash transaction.
func (a *Appointment) PackageFunded() bool {
	return a.PackageInfo != nil
}

type CreateAppointmentRequest struct {
	CustomerID    uuid.UUID   `json:"customer_id" validate:"required"`
	StaffID       uuid.UUID   `json:"staff_id" validate:"required"`
	ServiceID     uuid.UUID   `json:"service_id" validate:"required"`
	CustomerName  string      `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string      `json:"customer_phone" validate:"max=32"`
	ServiceName   string      `json:"service_name" validate:"max=200"`
	Date          string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string      `json:"time" validate:"required,datetime=15:04"`
	Price         float64     `json:"price" validate:"gte=0"`
	PaymentType   string      `json:"payment_type" validate:"omitempty,oneof=cash card transfer package"`
	PackageInfo   *PackageRef `json:"package_info"`
	Notes         string      `json:"notes" validate:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

type AppointmentFilters struct {
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	StaffID    uuid.UUID
	Status     AppointmentStatus
	DateFrom   string
	DateTo     string
}

// StatusChangedEvent is the outbox payload emitted after a transition.
type StatusChangedEvent struct {
	AppointmentID uuid.UUID         `json:"appointment_id"`
	TenantID      uuid.UUID         `json:"tenant_id"`
	OldStatus     AppointmentStatus `json:"old_status"`
	NewStatus     AppointmentStatus `json:"new_status"`
	ChangedAt     time.Time         `json:"changed_at"`
}
