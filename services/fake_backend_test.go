package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"training-center-api/config"
	"training-center-api/models"
)

// fakeBackend: Backend в памяти для тестов сервисов.
type fakeBackend struct {
	mu            sync.Mutex
	scheduleCalls int
	historyFrom   models.Date
	historyTo     models.Date

	listSchedules func(ctx context.Context, call int) ([]models.RawSchedule, error)
	history       []models.RawAttendance
	session       models.RawSessionDetail
	created       []models.Schedule
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduleCalls
}

func (f *fakeBackend) ListSchedules(ctx context.Context, token string) ([]models.RawSchedule, error) {
	f.mu.Lock()
	f.scheduleCalls++
	call := f.scheduleCalls
	f.mu.Unlock()
	if f.listSchedules == nil {
		return nil, nil
	}
	return f.listSchedules(ctx, call)
}

func (f *fakeBackend) GetSchedule(ctx context.Context, token, id string) (models.RawSchedule, error) {
	return models.RawSchedule{}, ErrNotFound
}

func (f *fakeBackend) CreateSchedule(ctx context.Context, token string, s models.Schedule) (models.RawSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, s)
	return models.RawSchedule{}, nil
}

func (f *fakeBackend) UpdateSchedule(ctx context.Context, token, id string, s models.Schedule) (models.RawSchedule, error) {
	return models.RawSchedule{}, nil
}

func (f *fakeBackend) DeleteSchedule(ctx context.Context, token, id string) error { return nil }

func (f *fakeBackend) ListPrograms(ctx context.Context, token string) ([]models.Program, error) {
	return nil, nil
}

func (f *fakeBackend) ListParticipants(ctx context.Context, token, program string) ([]models.RawParticipant, error) {
	return nil, nil
}

func (f *fakeBackend) RecordAttendance(ctx context.Context, token string, in models.AttendanceInput) (json.RawMessage, error) {
	return nil, nil
}

func (f *fakeBackend) AttendanceHistory(ctx context.Context, token string, from, to models.Date) ([]models.RawAttendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyFrom, f.historyTo = from, to
	return f.history, nil
}

func (f *fakeBackend) SessionDetail(ctx context.Context, token, scheduleID string, date models.Date) (models.RawSessionDetail, error) {
	return f.session, nil
}

func (f *fakeBackend) ListMeasurements(ctx context.Context, token, participantID string) ([]models.Measurement, error) {
	return nil, nil
}

func schedulesOf(ids ...string) []models.RawSchedule {
	out := make([]models.RawSchedule, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.RawSchedule{ID: models.FlexString(id), Name: "Clase " + id, DayOfWeek: "lunes", StartTime: "08:00", EndTime: "09:00"})
	}
	return out
}

// newTestDashboard: сервис дашборда с часами на понедельник 2025-01-13 09:00 UTC.
func newTestDashboard(backend Backend) (*DashboardService, *CacheService) {
	cfg := &config.Config{
		Location:           time.UTC,
		UpcomingWindowDays: 14,
		WeeklyWindowDays:   6,
		UpcomingLimit:      6,
		HistoryDays:        30,
	}
	cache := NewCacheService(time.Minute, 2*time.Minute, 5*time.Minute)
	svc := NewDashboardService(backend, NewNormalizer(), cache, cfg).WithClock(func() time.Time {
		return time.Date(2025, time.January, 13, 9, 0, 0, 0, time.UTC)
	})
	return svc, cache
}
