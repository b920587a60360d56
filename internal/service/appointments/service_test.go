package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/NC-AppointmentService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	byID    *domain.Appointment
	byIDErr error

	listResult []*domain.Appointment
	listFilter domain.AppointmentsFilter

	updateErr    error
	updatedID    int64
	updatedTo    domain.AppointmentStatus
	updateCalled bool

	counts     map[domain.AppointmentStatus]int
	todayCount int
}

func (f *fakeRepo) GetByID(context.Context, int64) (*domain.Appointment, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeRepo) ListByFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.listFilter = filter
	return f.listResult, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	f.updateCalled = true
	f.updatedID = id
	f.updatedTo = status
	return f.updateErr
}

func (f *fakeRepo) StatusCounts(context.Context, time.Time) (map[domain.AppointmentStatus]int, error) {
	return f.counts, nil
}

func (f *fakeRepo) CountByDate(context.Context, time.Time) (int, error) {
	return f.todayCount, nil
}

var testNow = time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, nopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              5,
		Date:            testNow.AddDate(0, 0, 1),
		StartTime:       "09:30",
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
		FullName:        "Петров Иван",
		Phone:           "+7 900 000-00-00",
		Services:        []domain.Service{{ID: 1, Name: "Осмотр", PriceCents: 5000, DurationMins: 30}},
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{byIDErr: appointmentRepo.ErrAppointmentNotFound})

	_, err := svc.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus_ActiveToTerminal(t *testing.T) {
	repo := &fakeRepo{byID: confirmedAppointment()}
	svc := newTestService(repo)

	resp, err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: "finished"})
	require.NoError(t, err)

	assert.Equal(t, "finished", resp.Status)
	assert.Equal(t, domain.StatusFinished, repo.updatedTo)
}

func TestUpdateStatus_SkippingStagesAllowed(t *testing.T) {
	appt := confirmedAppointment()
	appt.Status = domain.StatusPending
	repo := &fakeRepo{byID: appt}
	svc := newTestService(repo)

	// pending -> finished без промежуточных этапов
	resp, err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: "finished"})
	require.NoError(t, err)
	assert.Equal(t, "finished", resp.Status)
}

func TestUpdateStatus_TerminalIsImmutable(t *testing.T) {
	for _, terminal := range []domain.AppointmentStatus{domain.StatusFinished, domain.StatusCancelled} {
		for _, target := range []string{"pending", "confirmed", "in_progress", "finished", "cancelled"} {
			appt := confirmedAppointment()
			appt.Status = terminal
			repo := &fakeRepo{byID: appt}
			svc := newTestService(repo)

			_, err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: target})
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", terminal, target)
			assert.False(t, repo.updateCalled, "%s -> %s must not touch storage", terminal, target)
		}
	}
}

func TestUpdateStatus_PendingNeverATarget(t *testing.T) {
	repo := &fakeRepo{byID: confirmedAppointment()}
	svc := newTestService(repo)

	_, err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: "pending"})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, repo.updateCalled)
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	repo := &fakeRepo{byID: confirmedAppointment()}
	svc := newTestService(repo)

	_, err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: "done"})
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, repo.updateCalled)
}

func TestList_ActiveStatusLimitsToUpcoming(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), &models.ListAppointmentsRequest{Status: "confirmed", Page: 1})
	require.NoError(t, err)

	require.NotNil(t, repo.listFilter.FromDate)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), *repo.listFilter.FromDate)
}

func TestList_TerminalStatusIncludesHistory(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), &models.ListAppointmentsRequest{Status: "finished", Page: 1})
	require.NoError(t, err)

	assert.Nil(t, repo.listFilter.FromDate)
}

func TestList_Pagination(t *testing.T) {
	// Репозиторий возвращает на одну запись больше размера страницы
	extra := make([]*domain.Appointment, domain.AdminPageSize+1)
	for i := range extra {
		appt := confirmedAppointment()
		appt.ID = int64(i + 1)
		extra[i] = appt
	}
	repo := &fakeRepo{listResult: extra}
	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListAppointmentsRequest{Status: "confirmed", Page: 2})
	require.NoError(t, err)

	assert.Len(t, resp.Appointments, domain.AdminPageSize)
	assert.True(t, resp.HasMore)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, domain.AdminPageSize, repo.listFilter.Offset)
	assert.Equal(t, domain.AdminPageSize+1, repo.listFilter.Limit)
}

func TestDashboard(t *testing.T) {
	repo := &fakeRepo{
		counts: map[domain.AppointmentStatus]int{
			domain.StatusPending:  3,
			domain.StatusFinished: 12,
		},
		todayCount: 4,
	}
	svc := newTestService(repo)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.StatusCounts["pending"])
	assert.Equal(t, 12, resp.StatusCounts["finished"])
	// Статусы без записей присутствуют с нулем
	assert.Contains(t, resp.StatusCounts, "cancelled")
	assert.Equal(t, 0, resp.StatusCounts["cancelled"])
	assert.Equal(t, 4, resp.TodayTotal)
}
