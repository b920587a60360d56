package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/NC-AppointmentService/pkg/ptr"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// noopTxManager выполняет fn без настоящей транзакции
type noopTxManager struct{}

func (noopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAppointmentRepo struct {
	createErr   error
	created     *domain.Appointment
	createCalls int

	byKey      *domain.Appointment
	byKeyErr   error
	byKeyCalls int
	// missFirst имитирует гонку: первый поиск по ключу промахивается
	missFirst bool
}

func (f *fakeAppointmentRepo) CreateWithServices(_ context.Context, appt *domain.Appointment, _ []int64) (*domain.Appointment, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	appt.ID = 42
	f.created = appt
	return appt, nil
}

func (f *fakeAppointmentRepo) GetByIdempotencyKey(context.Context, string) (*domain.Appointment, error) {
	f.byKeyCalls++
	if f.missFirst && f.byKeyCalls == 1 {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if f.byKeyErr != nil {
		return nil, f.byKeyErr
	}
	if f.byKey == nil {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return f.byKey, nil
}

type fakeCatalogRepo struct {
	services []domain.Service
	err      error
	calls    int
}

func (f *fakeCatalogRepo) GetByIDs(context.Context, []int64) ([]domain.Service, error) {
	f.calls++
	return f.services, f.err
}

type fakeScheduleRepo struct {
	schedule *domain.Schedule
	err      error
}

func (f *fakeScheduleRepo) GetSchedule(context.Context) (*domain.Schedule, error) {
	return f.schedule, f.err
}

// Понедельник
var testDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

const testKey = "2f1e7a36-9d25-4a52-8e07-3f1b2c4d5e6f"

func mondaySchedule() *domain.Schedule {
	return &domain.Schedule{
		Windows: []domain.AvailabilityWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		},
		BlockedDates:       map[string]struct{}{},
		GranularityMinutes: 30,
	}
}

func validRequest() *Request {
	return &Request{
		Date:       testDate,
		StartTime:  "09:30",
		ServiceIDs: []int64{1},
		FullName:   "Иванова Мария Петровна",
		Phone:      "+7 900 123-45-67",
	}
}

func newTestUseCase(appts *fakeAppointmentRepo, catalog *fakeCatalogRepo, schedule *fakeScheduleRepo) *UseCase {
	uc := NewUseCase(appts, catalog, schedule, noopTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: testDate.Add(-24 * time.Hour)}
	return uc
}

func activeService() []domain.Service {
	return []domain.Service{{ID: 1, DurationMins: 30, PriceCents: 5000, IsActive: true}}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(appts, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.Replayed)
	assert.Equal(t, int64(42), resp.Appointment.ID)
	assert.Equal(t, domain.StatusPending, resp.Appointment.Status)
	assert.Equal(t, 30, resp.Appointment.DurationMinutes)
}

func TestExecute_ValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "missing full name", mutate: func(r *Request) { r.FullName = "   " }},
		{name: "missing phone", mutate: func(r *Request) { r.Phone = "" }},
		{name: "no services", mutate: func(r *Request) { r.ServiceIDs = nil }},
		{name: "duplicate services", mutate: func(r *Request) { r.ServiceIDs = []int64{1, 1} }},
		{name: "bad idempotency key", mutate: func(r *Request) { r.IdempotencyKey = ptr.Ptr("not-a-uuid") }},
		{name: "bad email", mutate: func(r *Request) { r.Email = ptr.Ptr("no-at-sign") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := &fakeAppointmentRepo{}
			catalog := &fakeCatalogRepo{services: activeService()}
			uc := newTestUseCase(appts, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)

			// Валидация отсекает запрос до обращений к хранилищу
			assert.Zero(t, catalog.calls)
			assert.Zero(t, appts.createCalls)
		})
	}
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})
	uc.timeProvider = fixedTime{now: testDate.Add(48 * time.Hour)}

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_BlockedDateRejected(t *testing.T) {
	schedule := mondaySchedule()
	schedule.BlockedDates[testDate.Format(domain.DateFormat)] = struct{}{}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: schedule})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})

	req := validRequest()
	req.StartTime = "09:15"

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SpanBeyondWindowRejected(t *testing.T) {
	// 75 минут услуг со старта 11:00 вылезают за окно 09:00-12:00
	catalog := &fakeCatalogRepo{services: []domain.Service{
		{ID: 1, DurationMins: 30, IsActive: true},
		{ID: 2, DurationMins: 45, IsActive: true},
	}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	req := validRequest()
	req.ServiceIDs = []int64{1, 2}
	req.StartTime = "11:00"

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestGenerateCandidates_OverlappingWindowsMerged(t *testing.T) {
	// Пересекающиеся окна 09:00-11:00 и 10:00-12:00: общие ячейки
	// не дублируются, сетка строго возрастает
	candidates, err := generateCandidates(
		[]domain.AvailabilityWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00"},
		},
		30,
	)
	require.NoError(t, err)
	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		candidates,
	)
}

func TestValidateSlot_SpanAcrossOverlappingWindows(t *testing.T) {
	// В объединенной сетке запись на 60 минут со старта 10:30 помещается,
	// хотя целиком не укладывается ни в одно окно по отдельности
	schedule := &domain.Schedule{
		Windows: []domain.AvailabilityWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00"},
		},
		BlockedDates:       map[string]struct{}{},
		GranularityMinutes: 30,
	}

	require.NoError(t, validateSlot(schedule, testDate, "10:30", 60))
}

func TestExecute_UnknownServiceRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalogRepo{err: catalogRepo.ErrServiceNotFound}, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceRejected(t *testing.T) {
	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: false}}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_SlotTakenMapsToConflict(t *testing.T) {
	appts := &fakeAppointmentRepo{createErr: appointmentRepo.ErrSlotTaken}
	uc := newTestUseCase(appts, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_IdempotentReplayReturnsExisting(t *testing.T) {
	existing := &domain.Appointment{ID: 7, Status: domain.StatusPending}
	appts := &fakeAppointmentRepo{byKey: existing}
	uc := newTestUseCase(appts, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})

	req := validRequest()
	req.IdempotencyKey = ptr.Ptr(testKey)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Replayed)
	assert.Equal(t, int64(7), resp.Appointment.ID)
	// Повтор не доходит до вставки
	assert.Zero(t, appts.createCalls)
}

func TestExecute_ConcurrentDuplicateReplays(t *testing.T) {
	// Первый GetByIdempotencyKey промахивается, вставка ловит уникальный
	// индекс ключа, после чего запись конкурента возвращается как повтор
	existing := &domain.Appointment{ID: 11, Status: domain.StatusPending}
	appts := &fakeAppointmentRepo{
		createErr: appointmentRepo.ErrDuplicateSubmission,
		byKey:     existing,
		missFirst: true,
	}
	uc := newTestUseCase(appts, &fakeCatalogRepo{services: activeService()}, &fakeScheduleRepo{schedule: mondaySchedule()})

	req := validRequest()
	req.IdempotencyKey = ptr.Ptr(testKey)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Replayed)
	assert.Equal(t, int64(11), resp.Appointment.ID)
	assert.Equal(t, 1, appts.createCalls)
	assert.Equal(t, 2, appts.byKeyCalls)
}
