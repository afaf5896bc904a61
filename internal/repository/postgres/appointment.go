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

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, customer_id, staff_id, service_id,
			customer_name, customer_phone, service_name,
			date, time, status, price, payment_type, package_info, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.TenantID,
		appointment.CustomerID,
		appointment.StaffID,
		appointment.ServiceID,
		appointment.CustomerName,
		appointment.CustomerPhone,
		appointment.ServiceName,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.Price,
		appointment.PaymentType,
		appointment.PackageInfo,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, customer_id, staff_id, service_id,
			   customer_name, customer_phone, service_name,
			   date, time, status, price, payment_type, package_info, notes,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment.PackageInfo != nil && appointment.PackageInfo.UsageID == uuid.Nil {
		appointment.PackageInfo = nil
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error {
	query := `
		UPDATE appointments
		SET status = $1,
			notes = COALESCE($2, notes),
			updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, customer_id, staff_id, service_id,
			   customer_name, customer_phone, service_name,
			   date, time, status, price, payment_type, package_info, notes,
			   created_at, updated_at
		FROM appointments
		WHERE tenant_id = $1
	`
	args := []interface{}{filters.TenantID}
	argCount := 2

	if filters.CustomerID != uuid.Nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, filters.CustomerID)
		argCount++
	}

	if filters.StaffID != uuid.Nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argCount)
		args = append(args, filters.StaffID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.DateFrom != "" {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}

	if filters.DateTo != "" {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	query += " ORDER BY date ASC, time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	for _, apt := range appointments {
		if apt.PackageInfo != nil && apt.PackageInfo.UsageID == uuid.Nil {
			apt.PackageInfo = nil
		}
	}
	return appointments, nil
}
