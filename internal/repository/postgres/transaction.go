package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
)

// CreateForAppointment inserts the revenue row only when no
// type=appointment row exists for the appointment yet. The NOT EXISTS
// guard alone is not race-proof under READ COMMITTED; the partial
// unique index on (appointment_id) WHERE type = 'appointment' is what
// holds the at-most-one invariant when settlements race.
func (r *transactionRepository) CreateForAppointment(ctx context.Context, txn *model.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (
			id, tenant_id, type, amount, description, payment_type,
			customer_id, customer_name, appointment_id, date, profit,
			created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		WHERE NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE type = $3 AND appointment_id = $9
		)
	`
	txn.ID = uuid.New()
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.TenantID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.PaymentType,
		txn.CustomerID,
		txn.CustomerName,
		txn.AppointmentID,
		txn.Date,
		txn.Profit,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create appointment transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// filterClause builds the shared WHERE tail for List and Count.
func filterClause(filters *model.TransactionFilters) (string, []interface{}) {
	clause := ""
	args := []interface{}{filters.TenantID}
	argCount := 2

	if filters.Type != "" {
		clause += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, filters.Type)
		argCount++
	}

	if filters.DateFrom != "" {
		clause += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}

	if filters.DateTo != "" {
		clause += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	return clause, args
}

func (r *transactionRepository) List(ctx context.Context, filters *model.TransactionFilters) ([]*model.Transaction, error) {
	query := `
		SELECT id, tenant_id, type, amount, description, payment_type,
			   customer_id, customer_name, appointment_id, date, profit,
			   created_at, updated_at
		FROM transactions
		WHERE tenant_id = $1
	`
	clause, args := filterClause(filters)
	query += clause + " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filters.Limit, filters.Offset)
	}

	var transactions []*model.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Count(ctx context.Context, filters *model.TransactionFilters) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE tenant_id = $1`
	clause, args := filterClause(filters)

	var total int
	if err := r.db.GetContext(ctx, &total, query+clause, args...); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}
