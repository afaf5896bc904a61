package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

// GetByPhone looks the customer up by exact phone string within the
// tenant. The booking identity and the admin-side customer record only
// share the phone number, so this equality join is the contract; a
// number stored with a different country-code format will not match.
func (r *customerRepository) GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Customer, error) {
	query := `
		SELECT id, tenant_id, name, phone, email,
			   no_show_count, is_blacklisted, blacklisted_at,
			   created_at, updated_at
		FROM customers
		WHERE tenant_id = $1 AND phone = $2
	`
	var customer model.Customer
	err := r.db.GetContext(ctx, &customer, query, tenantID, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return &customer, nil
}

// IncrementNoShow bumps the counter in one statement and returns the
// new value, so concurrent no-show writes never lose an update.
func (r *customerRepository) IncrementNoShow(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE customers
		SET no_show_count = no_show_count + 1, updated_at = $1
		WHERE id = $2
		RETURNING no_show_count
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment no-show count: %w", err)
	}
	return count, nil
}

func (r *customerRepository) Blacklist(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE customers
		SET is_blacklisted = TRUE, blacklisted_at = $1, updated_at = $1
		WHERE id = $2 AND is_blacklisted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to blacklist customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
