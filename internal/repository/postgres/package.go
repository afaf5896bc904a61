package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

// DeductUsage moves one unit from remaining to used in a single
// statement. The WHERE guard is what keeps remaining_quantity from
// going negative under concurrent settlements.
func (r *packageRepository) DeductUsage(ctx context.Context, usageID uuid.UUID) (bool, error) {
	query := `
		UPDATE customer_package_usages
		SET used_quantity = used_quantity + 1,
			remaining_quantity = remaining_quantity - 1,
			updated_at = $1
		WHERE id = $2 AND remaining_quantity > 0
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), usageID)
	if err != nil {
		return false, fmt.Errorf("failed to deduct package usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// RefundUsage is the exact inverse; the used_quantity guard keeps the
// pair within [0, total_quantity].
func (r *packageRepository) RefundUsage(ctx context.Context, usageID uuid.UUID) (bool, error) {
	query := `
		UPDATE customer_package_usages
		SET used_quantity = used_quantity - 1,
			remaining_quantity = remaining_quantity + 1,
			updated_at = $1
		WHERE id = $2 AND used_quantity > 0
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), usageID)
	if err != nil {
		return false, fmt.Errorf("failed to refund package usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *packageRepository) MarkCompletedIfExhausted(ctx context.Context, packageID uuid.UUID) (bool, error) {
	query := `
		UPDATE customer_packages
		SET status = $1, updated_at = $2
		WHERE id = $3
		  AND status = $4
		  AND NOT EXISTS (
			SELECT 1 FROM customer_package_usages
			WHERE customer_package_id = $3 AND remaining_quantity > 0
		  )
	`
	result, err := r.db.ExecContext(ctx, query,
		model.PackageStatusCompleted, time.Now(), packageID, model.PackageStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to complete package: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *packageRepository) Reactivate(ctx context.Context, packageID uuid.UUID) (bool, error) {
	query := `
		UPDATE customer_packages
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.PackageStatusActive, time.Now(), packageID, model.PackageStatusCompleted)
	if err != nil {
		return false, fmt.Errorf("failed to reactivate package: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *packageRepository) ListCustomerPackages(ctx context.Context, tenantID, customerID uuid.UUID) ([]*model.CustomerPackage, error) {
	query := `
		SELECT id, tenant_id, customer_id, package_name, status,
			   created_at, updated_at
		FROM customer_packages
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
	`
	var packages []*model.CustomerPackage
	if err := r.db.SelectContext(ctx, &packages, query, tenantID, customerID); err != nil {
		return nil, fmt.Errorf("failed to list customer packages: %w", err)
	}

	usageQuery := `
		SELECT id, customer_package_id, item_type, item_name,
			   total_quantity, used_quantity, remaining_quantity,
			   created_at, updated_at
		FROM customer_package_usages
		WHERE customer_package_id = $1
		ORDER BY item_name ASC
	`
	for _, pkg := range packages {
		if err := r.db.SelectContext(ctx, &pkg.Usages, usageQuery, pkg.ID); err != nil {
			return nil, fmt.Errorf("failed to list package usages: %w", err)
		}
	}
	return packages, nil
}
