package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"training-center-api/config"
	"training-center-api/models"
)

type DeriveOptions struct {
	UpcomingWindow int
	WeekWindow     int
	UpcomingLimit  int
}

// Snapshot: производные данные дашборда, посчитанные из одной выборки API.
type Snapshot struct {
	Seq           uint64                  `json:"seq"`
	GeneratedAt   time.Time               `json:"generated_at"`
	Today         models.Date             `json:"today"`
	Schedules     []models.Schedule       `json:"schedules"`
	Rejected      []Rejection             `json:"rejected"`
	TodaySessions []models.Occurrence     `json:"today_sessions"`
	Upcoming      []models.Occurrence     `json:"upcoming"`
	Week          []models.WeekdayBucket  `json:"week"`
	History       []models.HistorySummary `json:"history"`
}

// Derive строит снимок из уже нормализованных данных; без ввода-вывода.
func Derive(schedules []models.Schedule, records []models.AttendanceRecord, today models.Date, opts DeriveOptions) *Snapshot {
	if schedules == nil {
		schedules = make([]models.Schedule, 0)
	}
	return &Snapshot{
		Today:         today,
		Schedules:     schedules,
		Rejected:      make([]Rejection, 0),
		TodaySessions: Today(schedules, today),
		Upcoming:      Upcoming(schedules, today, opts.UpcomingWindow, opts.UpcomingLimit),
		Week:          Week(schedules, today, opts.WeekWindow),
		History:       Aggregate(records, schedules),
	}
}

type DashboardService struct {
	backend     Backend
	normalizer  *Normalizer
	cache       *CacheService
	loc         *time.Location
	opts        DeriveOptions
	historyDays int
	now         func() time.Time

	mu      sync.Mutex
	seq     uint64
	flights map[string]*flight
}

func NewDashboardService(backend Backend, normalizer *Normalizer, cache *CacheService, cfg *config.Config) *DashboardService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		backend:    backend,
		normalizer: normalizer,
		cache:      cache,
		loc:        loc,
		opts: DeriveOptions{
			UpcomingWindow: cfg.UpcomingWindowDays,
			WeekWindow:     cfg.WeeklyWindowDays,
			UpcomingLimit:  cfg.UpcomingLimit,
		},
		historyDays: cfg.HistoryDays,
		now:         time.Now,
		flights:     make(map[string]*flight),
	}
}

// WithClock подменяет источник текущего времени.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

func (s *DashboardService) Options() DeriveOptions { return s.opts }

func (s *DashboardService) HistoryDays() int { return s.historyDays }

// Today: текущая дата в часовом поясе центра.
func (s *DashboardService) Today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

// Snapshot отдает снимок из кэша или собирает новый; токен попадает в список фонового обновления.
func (s *DashboardService) Snapshot(ctx context.Context, token string) (*Snapshot, error) {
	s.cache.Watch(token)
	if snap, ok := s.cache.GetSnapshot(TokenKey(token)); ok {
		return snap, nil
	}
	return s.Refresh(ctx, token)
}

// Schedules: нормализованные расписания из API.
func (s *DashboardService) Schedules(ctx context.Context, token string) ([]models.Schedule, []Rejection, error) {
	raws, err := s.backend.ListSchedules(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	schedules, rejected := s.normalizer.NormalizeSchedules(raws)
	return schedules, rejected, nil
}

// Occurrences: занятия в интервале дат по расписаниям из снимка.
func (s *DashboardService) Occurrences(ctx context.Context, token string, from, to models.Date) ([]models.Occurrence, error) {
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return nil, err
	}
	return Between(snap.Schedules, from, to), nil
}

// History: сводки посещаемости за произвольный интервал.
func (s *DashboardService) History(ctx context.Context, token string, from, to models.Date) ([]models.HistorySummary, error) {
	schedules, _, err := s.Schedules(ctx, token)
	if err != nil {
		return nil, err
	}
	raws, err := s.backend.AttendanceHistory(ctx, token, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	return Aggregate(s.normalizer.NormalizeAttendanceList(raws), schedules), nil
}

// SessionDetail: детали занятия вместе со сводкой посещаемости.
func (s *DashboardService) SessionDetail(ctx context.Context, token, scheduleID string, date models.Date) (*models.SessionDetail, error) {
	raw, err := s.backend.SessionDetail(ctx, token, scheduleID, date)
	if err != nil {
		return nil, err
	}
	detail := &models.SessionDetail{
		Date:         date,
		Participants: raw.Participants,
		Tests:        raw.Tests,
	}
	if raw.Schedule.ID != "" {
		schedule, err := s.normalizer.NormalizeSchedule(raw.Schedule)
		if err != nil {
			log.Printf("session detail: schedule %q not normalized: %v", raw.Schedule.ID, err)
			schedule = models.Schedule{ID: raw.Schedule.ID.String(), Name: raw.Schedule.Name, DayLabel: models.NoDayLabel}
		}
		detail.Schedule = schedule
	} else {
		detail.Schedule = models.Schedule{ID: scheduleID, DayLabel: models.NoDayLabel}
	}
	records := s.normalizer.NormalizeAttendanceList(raw.Attendance)
	if len(records) > 0 {
		summaries := Aggregate(records, []models.Schedule{detail.Schedule})
		for i := range summaries {
			if summaries[i].ScheduleID == scheduleID && summaries[i].Date.Equal(date) {
				detail.Summary = &summaries[i]
				break
			}
		}
	}
	return detail, nil
}

// load выполняет цепочку «расписания → история → расчет».
func (s *DashboardService) load(ctx context.Context, token string) (*Snapshot, error) {
	today := s.Today()
	schedules, rejected, err := s.Schedules(ctx, token)
	if err != nil {
		return nil, err
	}
	raws, err := s.backend.AttendanceHistory(ctx, token, today.AddDays(-s.historyDays), today)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	snap := Derive(schedules, s.normalizer.NormalizeAttendanceList(raws), today, s.opts)
	snap.Rejected = rejected
	snap.GeneratedAt = s.now()
	return snap, nil
}
