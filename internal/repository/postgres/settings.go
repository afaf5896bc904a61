package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

func (r *settingsRepository) GetBlacklistThreshold(ctx context.Context, tenantID uuid.UUID) (int, error) {
	query := `
		SELECT blacklist_threshold
		FROM tenant_settings
		WHERE tenant_id = $1
	`
	var threshold sql.NullInt64
	err := r.db.GetContext(ctx, &threshold, query, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultBlacklistThreshold, nil
		}
		return 0, fmt.Errorf("failed to get tenant settings: %w", err)
	}
	if !threshold.Valid || threshold.Int64 <= 0 {
		return model.DefaultBlacklistThreshold, nil
	}
	return int(threshold.Int64), nil
}
