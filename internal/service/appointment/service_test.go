package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	updateCalls  int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	cp := *apt
	f.appointments[apt.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error {
	f.updateCalls++
	apt, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	apt.Status = status
	if notes != nil {
		apt.Notes = *notes
	}
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if filters.TenantID != uuid.Nil && apt.TenantID != filters.TenantID {
			continue
		}
		if filters.CustomerID != uuid.Nil && apt.CustomerID != filters.CustomerID {
			continue
		}
		if filters.StaffID != uuid.Nil && apt.StaffID != filters.StaffID {
			continue
		}
		cp := *apt
		out = append(out, &cp)
	}
	return out, nil
}

// recorder stands in for every side-effect collaborator and records the
// order effects were invoked in. Errors are injectable per effect.
type recorder struct {
	calls []string
	fail  map[string]error
}

func newRecorder() *recorder {
	return &recorder{fail: make(map[string]error)}
}

func (r *recorder) record(name string) error {
	r.calls = append(r.calls, name)
	return r.fail[name]
}

func (r *recorder) Deduct(_ context.Context, _ *model.Appointment) error { return r.record("deduct") }
func (r *recorder) Refund(_ context.Context, _ *model.Appointment) error { return r.record("refund") }
func (r *recorder) CreateAppointmentTransaction(_ context.Context, _ *model.Appointment) error {
	return r.record("ledger")
}
func (r *recorder) RecordNoShow(_ context.Context, _ *model.Appointment) error {
	return r.record("noshow")
}

type fakeEmitter struct {
	events []string
	err    error
}

func (f *fakeEmitter) Emit(_ context.Context, eventType string, _ interface{}) error {
	f.events = append(f.events, eventType)
	return f.err
}

type fakeNotifier struct {
	created int
}

func (f *fakeNotifier) NotifyAppointmentCreated(_ *model.Appointment) { f.created++ }

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	effects  *recorder
	emitter  *fakeEmitter
	notifier *fakeNotifier
}

func newFixture() *fixture {
	repo := newFakeAppointmentRepo()
	effects := newRecorder()
	emitter := &fakeEmitter{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, effects, effects, effects, emitter, notifier, nil, zerolog.Nop())
	return &fixture{svc: svc, repo: repo, effects: effects, emitter: emitter, notifier: notifier}
}

func (fx *fixture) seed(tenantID uuid.UUID, status model.AppointmentStatus) *model.Appointment {
	apt := &model.Appointment{
		TenantID:      tenantID,
		CustomerID:    uuid.New(),
		StaffID:       uuid.New(),
		ServiceID:     uuid.New(),
		CustomerName:  "Fatma Kaya",
		CustomerPhone: "+905551112233",
		ServiceName:   "Manicure",
		Date:          "2026-09-20",
		Time:          "14:00",
		Status:        status,
		Price:         150,
	}
	apt.ID = uuid.New()
	fx.repo.appointments[apt.ID] = apt
	return apt
}

func owner(tenantID uuid.UUID) *model.Actor {
	return &model.Actor{UserType: model.UserTypeOwner, TenantID: tenantID}
}

func statusReq(status string) *model.UpdateAppointmentStatusRequest {
	return &model.UpdateAppointmentStatusRequest{Status: status}
}

func TestTransitionConfirmRunsSettlementAndLedger(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	result, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("confirmed"))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Status)

	assert.Equal(t, []string{"deduct", "ledger"}, fx.effects.calls)
	assert.Equal(t, model.AppointmentStatusConfirmed, fx.repo.appointments[apt.ID].Status)
	assert.Equal(t, []string{"appointment.status_changed"}, fx.emitter.events)
}

func TestTransitionConfirmedToCompletedNoDoubleSettlement(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusConfirmed)

	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("completed"))
	require.NoError(t, err)

	assert.Empty(t, fx.effects.calls, "moving within the settled set must not re-settle")
	assert.Equal(t, []string{"appointment.status_changed"}, fx.emitter.events)
}

func TestTransitionCancelSettledRefunds(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusConfirmed)

	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("cancelled"))
	require.NoError(t, err)

	assert.Equal(t, []string{"refund"}, fx.effects.calls)
}

func TestTransitionCancelPendingNoRefund(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("cancelled"))
	require.NoError(t, err)

	assert.Empty(t, fx.effects.calls, "nothing was settled, nothing to reverse")
}

func TestTransitionNoShowRecordsAccounting(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()

	for _, from := range []model.AppointmentStatus{model.AppointmentStatusPending, model.AppointmentStatusConfirmed} {
		apt := fx.seed(tenantID, from)
		fx.effects.calls = nil

		_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("no_show"))
		require.NoError(t, err)
		assert.Equal(t, []string{"noshow"}, fx.effects.calls, "from %s", from)
	}
}

func TestTransitionIdempotentSameStatus(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusConfirmed)

	result, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("confirmed"))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Status)

	assert.Empty(t, fx.effects.calls, "confirmed to confirmed must not deduct or book again")
	assert.Empty(t, fx.emitter.events, "no-change transitions emit no event")
	assert.Equal(t, 1, fx.repo.updateCalls, "the status write itself still happens")
}

func TestTransitionEffectFailureDoesNotAbort(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)
	fx.effects.fail["deduct"] = errors.New("usage row gone")

	result, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("confirmed"))
	require.NoError(t, err, "the status write is authoritative, settlement failures are warnings")
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Status)

	assert.Equal(t, []string{"deduct", "ledger"}, fx.effects.calls,
		"a failing effect must not stop its siblings")
	assert.Equal(t, model.AppointmentStatusConfirmed, fx.repo.appointments[apt.ID].Status)
}

func TestTransitionEmitFailureDoesNotAbort(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)
	fx.emitter.err = errors.New("outbox insert failed")

	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("confirmed"))
	require.NoError(t, err)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Transition(context.Background(), owner(uuid.New()), uuid.New(), statusReq("confirmed"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestTransitionInvalidStatus(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, statusReq("scheduled"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidStatus, appErr.Code)

	assert.Zero(t, fx.repo.updateCalls, "rejected requests must not write")
	assert.Empty(t, fx.effects.calls)
}

func TestTransitionCrossTenantForbidden(t *testing.T) {
	fx := newFixture()
	apt := fx.seed(uuid.New(), model.AppointmentStatusPending)

	_, err := fx.svc.Transition(context.Background(), owner(uuid.New()), apt.ID, statusReq("confirmed"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	assert.Zero(t, fx.repo.updateCalls)
}

func TestTransitionStaffOnlyOwnAppointments(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	assigned := &model.Actor{UserType: model.UserTypeStaff, TenantID: tenantID, StaffID: apt.StaffID}
	_, err := fx.svc.Transition(context.Background(), assigned, apt.ID, statusReq("confirmed"))
	require.NoError(t, err)

	other := &model.Actor{UserType: model.UserTypeStaff, TenantID: tenantID, StaffID: uuid.New()}
	_, err = fx.svc.Transition(context.Background(), other, apt.ID, statusReq("completed"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestTransitionCustomerMayOnlyCancelOwn(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	own := &model.Actor{UserType: model.UserTypeCustomer, TenantID: tenantID, CustomerID: apt.CustomerID}

	_, err := fx.svc.Transition(context.Background(), own, apt.ID, statusReq("confirmed"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code, "customers cannot confirm")

	_, err = fx.svc.Transition(context.Background(), own, apt.ID, statusReq("cancelled"))
	require.NoError(t, err)

	stranger := &model.Actor{UserType: model.UserTypeCustomer, TenantID: tenantID, CustomerID: uuid.New()}
	_, err = fx.svc.Transition(context.Background(), stranger, apt.ID, statusReq("cancelled"))
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestTransitionAppliesNotes(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)

	notes := "customer called to confirm"
	req := &model.UpdateAppointmentStatusRequest{Status: "confirmed", Notes: &notes}
	_, err := fx.svc.Transition(context.Background(), owner(tenantID), apt.ID, req)
	require.NoError(t, err)

	assert.Equal(t, notes, fx.repo.appointments[apt.ID].Notes)
}

func TestCreateAppointmentCustomerStartsPending(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	actor := &model.Actor{UserType: model.UserTypeCustomer, TenantID: tenantID, CustomerID: uuid.New()}

	apt, err := fx.svc.CreateAppointment(context.Background(), actor, &model.CreateAppointmentRequest{
		CustomerID:   actor.CustomerID,
		StaffID:      uuid.New(),
		ServiceID:    uuid.New(),
		CustomerName: "Fatma Kaya",
		Date:         "2026-09-20",
		Time:         "14:00",
		Price:        150,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, tenantID, apt.TenantID)
	assert.Empty(t, fx.effects.calls, "pending bookings settle later, on confirmation")
	assert.Equal(t, 1, fx.notifier.created)
	assert.Equal(t, []string{"appointment.created"}, fx.emitter.events)
}

func TestCreateAppointmentOwnerBornSettled(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()

	apt, err := fx.svc.CreateAppointment(context.Background(), owner(tenantID), &model.CreateAppointmentRequest{
		CustomerID:   uuid.New(),
		StaffID:      uuid.New(),
		ServiceID:    uuid.New(),
		CustomerName: "Fatma Kaya",
		Date:         "2026-09-20",
		Time:         "14:00",
		Price:        150,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, []string{"deduct", "ledger"}, fx.effects.calls,
		"owner bookings run the same settlement as pending to confirmed")
	assert.Equal(t, 1, fx.notifier.created)
}

func TestGetAppointmentScoping(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	apt := fx.seed(tenantID, model.AppointmentStatusPending)
	ctx := context.Background()

	got, err := fx.svc.GetAppointment(ctx, owner(tenantID), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, got.ID)

	// Cross-tenant reads look like the row does not exist.
	_, err = fx.svc.GetAppointment(ctx, owner(uuid.New()), apt.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)

	stranger := &model.Actor{UserType: model.UserTypeCustomer, TenantID: tenantID, CustomerID: uuid.New()}
	_, err = fx.svc.GetAppointment(ctx, stranger, apt.ID)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestListAppointmentsForcesScope(t *testing.T) {
	fx := newFixture()
	tenantID := uuid.New()
	mine := fx.seed(tenantID, model.AppointmentStatusPending)
	fx.seed(tenantID, model.AppointmentStatusPending)
	fx.seed(uuid.New(), model.AppointmentStatusPending)
	ctx := context.Background()

	all, err := fx.svc.ListAppointments(ctx, owner(tenantID), &model.AppointmentFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "owners see their whole tenant and nothing more")

	me := &model.Actor{UserType: model.UserTypeCustomer, TenantID: tenantID, CustomerID: mine.CustomerID}
	own, err := fx.svc.ListAppointments(ctx, me, &model.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	staff := &model.Actor{UserType: model.UserTypeStaff, TenantID: tenantID, StaffID: mine.StaffID}
	assigned, err := fx.svc.ListAppointments(ctx, staff, &model.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, mine.ID, assigned[0].ID)
}
