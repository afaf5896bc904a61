package model

import (
	"github.com/google/uuid"
)

type PackageStatus string

const (
	PackageStatusActive    PackageStatus = "active"
	PackageStatusCompleted PackageStatus = "completed"
)

// CustomerPackage is a customer's purchased package instance. Its status
// is derived: completed iff every owned usage row is exhausted. The
// settlement service re-checks this after each deduct and refund.
type CustomerPackage struct {
	Base
	TenantID    uuid.UUID               `db:"tenant_id" json:"tenant_id"`
	CustomerID  uuid.UUID               `db:"customer_id" json:"customer_id"`
	PackageName string                  `db:"package_name" json:"package_name"`
	Status      PackageStatus           `db:"status" json:"status"`
	Usages      []*CustomerPackageUsage `db:"-" json:"usages,omitempty"`
}

// CustomerPackageUsage tracks remaining entitlement for one billable
// item inside a purchased package.
//
// Invariant: used_quantity + remaining_quantity == total_quantity and
// 0 <= remaining_quantity <= total_quantity. The repository enforces
// this with conditional updates; quantities never move independently.
type CustomerPackageUsage struct {
	Base
	CustomerPackageID uuid.UUID `db:"customer_package_id" json:"customer_package_id"`
	ItemType          string    `db:"item_type" json:"item_type"`
	ItemName          string    `db:"item_name" json:"item_name"`
	TotalQuantity     int       `db:"total_quantity" json:"total_quantity"`
	UsedQuantity      int       `db:"used_quantity" json:"used_quantity"`
	RemainingQuantity int       `db:"remaining_quantity" json:"remaining_quantity"`
}
