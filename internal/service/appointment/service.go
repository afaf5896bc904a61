package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/metrics"
)

// Settler reverses or applies package entitlement for an appointment.
type Settler interface {
	Deduct(ctx context.Context, apt *model.Appointment) error
	Refund(ctx context.Context, apt *model.Appointment) error
}

// LedgerWriter books appointment revenue.
type LedgerWriter interface {
	CreateAppointmentTransaction(ctx context.Context, apt *model.Appointment) error
}

// NoShowRecorder tracks missed appointments.
type NoShowRecorder interface {
	RecordNoShow(ctx context.Context, apt *model.Appointment) error
}

// EventEmitter writes domain events to the outbox.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// Notifier sends fire-and-forget booking confirmations.
type Notifier interface {
	NotifyAppointmentCreated(apt *model.Appointment)
}

// effect is one status-transition side effect. Every effect's guard is
// evaluated independently against (old, new) — never chained with
// else — so adding a status later cannot silently skip a handler.
type effect struct {
	name string
	when func(old, new model.AppointmentStatus) bool
	run  func(ctx context.Context, apt *model.Appointment) error
}

// TransitionResult is the caller-facing summary of an applied
// transition.
type TransitionResult struct {
	ID     uuid.UUID               `json:"id"`
	Status model.AppointmentStatus `json:"status"`
}

type Service struct {
	repo     repository.AppointmentRepository
	settler  Settler
	ledger   LedgerWriter
	noShow   NoShowRecorder
	events   EventEmitter
	notifier Notifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	effects  []effect
}

func NewService(
	repo repository.AppointmentRepository,
	settler Settler,
	ledger LedgerWriter,
	noShow NoShowRecorder,
	events EventEmitter,
	notifier Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	s := &Service{
		repo:     repo,
		settler:  settler,
		ledger:   ledger,
		noShow:   noShow,
		events:   events,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}

	// Settlement deduction and the ledger entry share a guard but run
	// as separate effects: a failure in one must not block the other.
	s.effects = []effect{
		{
			name: "package_deduct",
			when: func(old, new model.AppointmentStatus) bool {
				return new.Settled() && !old.Settled()
			},
			run: settler.Deduct,
		},
		{
			name: "ledger_entry",
			when: func(old, new model.AppointmentStatus) bool {
				return new.Settled() && !old.Settled()
			},
			run: ledger.CreateAppointmentTransaction,
		},
		{
			name: "no_show_accounting",
			when: func(old, new model.AppointmentStatus) bool {
				return new == model.AppointmentStatusNoShow && old != model.AppointmentStatusNoShow
			},
			run: noShow.RecordNoShow,
		},
		{
			name: "package_refund",
			when: func(old, new model.AppointmentStatus) bool {
				return new == model.AppointmentStatusCancelled && old != model.AppointmentStatusCancelled && old.Settled()
			},
			run: settler.Refund,
		},
	}

	return s
}

// Transition applies a requested status change. Validation and
// authorization abort before any write; once the status is persisted
// the side effects run best-effort, each failure logged and swallowed.
// The committed status is the source of truth, settlement is
// bookkeeping that an external job may retry via the emitted event.
func (s *Service) Transition(ctx context.Context, actor *model.Actor, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*TransitionResult, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}

	newStatus := model.AppointmentStatus(req.Status)

	if err := authorize(actor, apt, newStatus); err != nil {
		return nil, err
	}

	if !newStatus.Valid() {
		return nil, apperrors.InvalidStatus(req.Status)
	}

	oldStatus := apt.Status

	if err := s.repo.UpdateStatus(ctx, id, newStatus, req.Notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	apt.Status = newStatus
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	s.runEffects(ctx, apt, oldStatus, newStatus)

	if oldStatus != newStatus {
		if s.metrics != nil {
			s.metrics.TransitionsTotal.WithLabelValues(string(oldStatus), string(newStatus)).Inc()
		}
		s.emitStatusChanged(ctx, apt, oldStatus, newStatus)
	}

	return &TransitionResult{ID: apt.ID, Status: apt.Status}, nil
}

// runEffects evaluates every guard against the transition and runs the
// matching handlers in order. Failures are settlement warnings: logged
// with context, counted, never propagated and never able to stop a
// sibling effect.
func (s *Service) runEffects(ctx context.Context, apt *model.Appointment, oldStatus, newStatus model.AppointmentStatus) {
	for _, e := range s.effects {
		if !e.when(oldStatus, newStatus) {
			continue
		}
		if err := e.run(ctx, apt); err != nil {
			s.logger.Warn().
				Err(err).
				Str("effect", e.name).
				Str("appointment_id", apt.ID.String()).
				Str("old_status", string(oldStatus)).
				Str("new_status", string(newStatus)).
				Msg("transition side effect failed, status write kept")
			if s.metrics != nil {
				s.metrics.SettlementWarnings.WithLabelValues(e.name).Inc()
			}
		}
	}
}

func (s *Service) emitStatusChanged(ctx context.Context, apt *model.Appointment, oldStatus, newStatus model.AppointmentStatus) {
	evt := model.StatusChangedEvent{
		AppointmentID: apt.ID,
		TenantID:      apt.TenantID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedAt:     time.Now(),
	}
	if err := s.events.Emit(ctx, "appointment.status_changed", evt); err != nil {
		s.logger.Warn().
			Err(err).
			Str("appointment_id", apt.ID.String()).
			Msg("failed to emit status change event")
	}
}

// authorize applies the actor rule set: customers may only cancel
// their own appointment, staff only touch appointments assigned to
// them, owners act anywhere within their tenant.
func authorize(actor *model.Actor, apt *model.Appointment, requested model.AppointmentStatus) error {
	if actor.TenantID != apt.TenantID {
		return apperrors.Forbidden("appointment belongs to another tenant", nil)
	}

	switch actor.UserType {
	case model.UserTypeOwner:
		return nil
	case model.UserTypeStaff:
		if actor.StaffID != apt.StaffID {
			return apperrors.Forbidden("appointment is assigned to another staff member", nil)
		}
		return nil
	case model.UserTypeCustomer:
		if actor.CustomerID != apt.CustomerID {
			return apperrors.Forbidden("appointment belongs to another customer", nil)
		}
		if requested != model.AppointmentStatusCancelled {
			return apperrors.Forbidden("customers may only cancel their appointments", nil)
		}
		return nil
	default:
		return apperrors.Forbidden("unknown actor type", nil)
	}
}

// CreateAppointment books a new appointment. Customer bookings start
// pending; staff and owner created ones are confirmed immediately, and
// the confirmed settlement effects run through the same engine as any
// later transition would.
func (s *Service) CreateAppointment(ctx context.Context, actor *model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	status := model.AppointmentStatusPending
	if actor.UserType == model.UserTypeStaff || actor.UserType == model.UserTypeOwner {
		status = model.AppointmentStatusConfirmed
	}

	apt := &model.Appointment{
		TenantID:      actor.TenantID,
		CustomerID:    req.CustomerID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		Time:          req.Time,
		Status:        status,
		Price:         req.Price,
		PaymentType:   req.PaymentType,
		PackageInfo:   req.PackageInfo,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create appointment: %w", err))
	}

	// Owner/staff bookings are born settled; run the settlement
	// effects exactly as a pending→confirmed transition would.
	if status.Settled() {
		s.runEffects(ctx, apt, model.AppointmentStatusPending, status)
	}

	s.notifier.NotifyAppointmentCreated(apt)

	if err := s.events.Emit(ctx, "appointment.created", apt); err != nil {
		s.logger.Warn().
			Err(err).
			Str("appointment_id", apt.ID.String()).
			Msg("failed to emit creation event")
	}

	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	if actor.TenantID != apt.TenantID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	if actor.UserType == model.UserTypeCustomer && actor.CustomerID != apt.CustomerID {
		return nil, apperrors.Forbidden("appointment belongs to another customer", nil)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, actor *model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	filters.TenantID = actor.TenantID
	// Customers and staff only ever see their own slice of the book.
	switch actor.UserType {
	case model.UserTypeCustomer:
		filters.CustomerID = actor.CustomerID
	case model.UserTypeStaff:
		filters.StaffID = actor.StaffID
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}
