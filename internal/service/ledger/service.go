package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

const defaultPaymentType = "cash"

// Service records the cash-ledger entry for a settled appointment.
// Package-funded visits produce no entry, and the appointment id keys
// idempotency so repeated settlements never double-book revenue.
type Service struct {
	repo   repository.TransactionRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo repository.TransactionRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateAppointmentTransaction books the appointment's price as
// revenue on today's date. Today, not the service date: revenue is
// recognized when the appointment settles.
func (s *Service) CreateAppointmentTransaction(ctx context.Context, apt *model.Appointment) error {
	if apt.PackageFunded() {
		return nil
	}
	if apt.Price <= 0 {
		return nil
	}

	paymentType := apt.PaymentType
	if paymentType == "" {
		paymentType = defaultPaymentType
	}

	aptID := apt.ID
	custID := apt.CustomerID
	txn := &model.Transaction{
		TenantID:      apt.TenantID,
		Type:          model.TransactionTypeAppointment,
		Amount:        apt.Price,
		Description:   fmt.Sprintf("Appointment: %s", apt.ServiceName),
		PaymentType:   paymentType,
		CustomerID:    &custID,
		CustomerName:  apt.CustomerName,
		AppointmentID: &aptID,
		Date:          s.now().Format("2006-01-02"),
		Profit:        0,
	}

	created, err := s.repo.CreateForAppointment(ctx, txn)
	if err != nil {
		return fmt.Errorf("create appointment transaction: %w", err)
	}
	if !created {
		s.logger.Debug().
			Str("appointment_id", apt.ID.String()).
			Msg("transaction already exists for appointment, skipped")
	}
	return nil
}
