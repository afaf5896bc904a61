package model

import (
	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeAppointment TransactionType = "appointment"
	TransactionTypeSale        TransactionType = "sale"
	TransactionTypeIncome      TransactionType = "income"
	TransactionTypeExpense     TransactionType = "expense"
	TransactionTypePackage     TransactionType = "package"
)

// Transaction is a financial ledger entry. For type=appointment the
// appointment_id column is the idempotency key: at most one such row
// exists per appointment.
type Transaction struct {
	Base
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        float64         `db:"amount" json:"amount"`
	Description   string          `db:"description" json:"description"`
	PaymentType   string          `db:"payment_type" json:"payment_type"`
	CustomerID    *uuid.UUID      `db:"customer_id" json:"customer_id,omitempty"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	AppointmentID *uuid.UUID      `db:"appointment_id" json:"appointment_id,omitempty"`
	Date          string          `db:"date" json:"date"` // YYYY-MM-DD, revenue recognition day
	Profit        float64         `db:"profit" json:"profit"`
}

type TransactionFilters struct {
	TenantID uuid.UUID
	Type     TransactionType
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}
