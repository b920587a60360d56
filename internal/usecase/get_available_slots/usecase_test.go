package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointmentRepo struct {
	spans []domain.ActiveSpan
	err   error
}

func (f *fakeAppointmentRepo) ActiveSpansByDate(context.Context, time.Time) ([]domain.ActiveSpan, error) {
	return f.spans, f.err
}

type fakeCatalogRepo struct {
	services []domain.Service
	err      error
}

func (f *fakeCatalogRepo) GetByIDs(context.Context, []int64) ([]domain.Service, error) {
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

func newTestUseCase(appts *fakeAppointmentRepo, catalog *fakeCatalogRepo, schedule *fakeScheduleRepo) *UseCase {
	uc := NewUseCase(appts, catalog, schedule, nopLogger{})
	uc.timeProvider = fixedTime{now: testDate.Add(-24 * time.Hour)}
	return uc
}

func mondaySchedule() *domain.Schedule {
	return &domain.Schedule{
		Windows: []domain.AvailabilityWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		},
		BlockedDates:       map[string]struct{}{},
		GranularityMinutes: 30,
	}
}

func TestExecute_HappyPath(t *testing.T) {
	catalog := &fakeCatalogRepo{services: []domain.Service{
		{ID: 1, DurationMins: 30, IsActive: true},
	}}
	appts := &fakeAppointmentRepo{spans: []domain.ActiveSpan{
		{StartTime: "09:00", DurationMinutes: 60},
	}}

	uc := newTestUseCase(appts, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1}})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.GranularityMinutes)
	assert.Equal(t, 30, resp.TotalDurationMinutes)
	// Запись 09:00-10:00 закрывает первые две ячейки
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00", "11:30"}, resp.Slots)
}

func TestExecute_BlockedDateReturnsEmpty(t *testing.T) {
	schedule := mondaySchedule()
	schedule.BlockedDates[testDate.Format(domain.DateFormat)] = struct{}{}

	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: true}}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: schedule})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: true}}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})
	uc.timeProvider = fixedTime{now: testDate.Add(48 * time.Hour)}

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoWindowsReturnsEmpty(t *testing.T) {
	// Воскресенье: окон нет
	sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)

	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: true}}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})
	uc.timeProvider = fixedTime{now: sunday.Add(-24 * time.Hour)}

	resp, err := uc.Execute(context.Background(), &Request{Date: sunday, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_UnknownServiceFails(t *testing.T) {
	catalog := &fakeCatalogRepo{err: catalogRepo.ErrServiceNotFound}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{99}})
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceFails(t *testing.T) {
	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: false}}}
	uc := newTestUseCase(&fakeAppointmentRepo{}, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1}})
	require.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_DuplicateServiceIDsRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCatalogRepo{}, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1, 1}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_StorageFailureIsInternal(t *testing.T) {
	catalog := &fakeCatalogRepo{services: []domain.Service{{ID: 1, DurationMins: 30, IsActive: true}}}
	appts := &fakeAppointmentRepo{err: errors.New("connection refused")}
	uc := newTestUseCase(appts, catalog, &fakeScheduleRepo{schedule: mondaySchedule()})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate, ServiceIDs: []int64{1}})
	require.ErrorIs(t, err, ErrInternal)
}
