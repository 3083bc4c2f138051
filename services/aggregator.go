package services

import (
	"sort"

	"training-center-api/models"
)

type historyKey struct {
	date       string
	scheduleID string
}

// Aggregate сворачивает отметки посещаемости в сводки по занятию (date + schedule_id).
// Total = Presentes + Ausentes; обоснованные пропуски считаются отдельно,
// отметки с неизвестным статусом не учитываются.
func Aggregate(records []models.AttendanceRecord, schedules []models.Schedule) []models.HistorySummary {
	byID := make(map[string]models.Schedule, len(schedules))
	for _, s := range schedules {
		byID[s.ID] = s
	}

	groups := make(map[historyKey]*models.HistorySummary)
	order := make([]historyKey, 0)
	for _, rec := range records {
		key := historyKey{date: rec.Date.String(), scheduleID: rec.ScheduleID}
		summary, ok := groups[key]
		if !ok {
			s := byID[rec.ScheduleID]
			summary = &models.HistorySummary{
				ScheduleID: rec.ScheduleID,
				Date:       rec.Date,
				Name:       s.Name,
				StartTime:  s.StartTime,
				EndTime:    s.EndTime,
				Location:   s.Location,
			}
			groups[key] = summary
			order = append(order, key)
		}

		switch rec.Status {
		case models.StatusPresent:
			summary.Presentes++
		case models.StatusAbsent:
			summary.Ausentes++
		case models.StatusJustified:
			summary.Justificados++
		}
		summary.Total = summary.Presentes + summary.Ausentes
	}

	out := make([]models.HistorySummary, 0, len(groups))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ScheduleID < out[j].ScheduleID
	})
	return out
}
