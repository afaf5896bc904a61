package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	// PackageRepository owns the entitlement quantities. Deduct and
	// Refund are single conditional updates so concurrent settlements
	// of the same usage row cannot drive quantities negative or past
	// the total.
	PackageRepository interface {
		// DeductUsage consumes one unit. Returns false when the row is
		// absent or already exhausted.
		DeductUsage(ctx context.Context, usageID uuid.UUID) (bool, error)
		// RefundUsage gives one unit back. Returns false when the row
		// is absent or nothing was used.
		RefundUsage(ctx context.Context, usageID uuid.UUID) (bool, error)
		// MarkCompletedIfExhausted flips the package to completed when
		// no sibling usage has quantity left. Returns true if flipped.
		MarkCompletedIfExhausted(ctx context.Context, packageID uuid.UUID) (bool, error)
		// Reactivate flips a completed package back to active. Returns
		// true if flipped.
		Reactivate(ctx context.Context, packageID uuid.UUID) (bool, error)
		ListCustomerPackages(ctx context.Context, tenantID, customerID uuid.UUID) ([]*model.CustomerPackage, error)
	}

	TransactionRepository interface {
		// CreateForAppointment inserts the revenue row unless one
		// already exists for the appointment. Returns false on the
		// duplicate path.
		CreateForAppointment(ctx context.Context, txn *model.Transaction) (bool, error)
		List(ctx context.Context, filters *model.TransactionFilters) ([]*model.Transaction, error)
		Count(ctx context.Context, filters *model.TransactionFilters) (int, error)
	}

	CustomerRepository interface {
		// GetByPhone joins the booking identity to the tenant's
		// customer record by raw phone string equality. The phone is
		// compared exactly as stored; no normalization is applied.
		GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Customer, error)
		// IncrementNoShow bumps the counter atomically and returns the
		// new value.
		IncrementNoShow(ctx context.Context, id uuid.UUID) (int, error)
		// Blacklist marks the customer. Returns false if already
		// blacklisted.
		Blacklist(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	}

	SettingsRepository interface {
		// GetBlacklistThreshold returns the tenant's threshold or the
		// default when no settings row exists.
		GetBlacklistThreshold(ctx context.Context, tenantID uuid.UUID) (int, error)
	}

	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
		DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
		BeginTx(ctx context.Context) (*sqlx.Tx, error)
	}
)
