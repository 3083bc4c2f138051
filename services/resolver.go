package services

import (
	"sort"

	"training-center-api/models"
)

// MaxRangeDays ограничивает выборку Between.
const MaxRangeDays = 366

// IsFixed: разовое занятие с конкретной датой.
func IsFixed(s models.Schedule) bool {
	return !s.SpecificDate.IsZero()
}

// WithinBounds проверяет d на вхождение в [StartDate, EndDate]; пустая граница не ограничивает.
func WithinBounds(s models.Schedule, d models.Date) bool {
	if !s.StartDate.IsZero() && d.Before(s.StartDate) {
		return false
	}
	if !s.EndDate.IsZero() && d.After(s.EndDate) {
		return false
	}
	return true
}

// OccursOn: проходит ли занятие шаблона в день d.
func OccursOn(s models.Schedule, d models.Date) bool {
	if d.IsZero() {
		return false
	}
	if IsFixed(s) {
		return s.SpecificDate.Equal(d)
	}
	if s.DayOfWeek == models.WeekdayNone {
		return false
	}
	return models.WeekdayOf(d.Weekday()) == s.DayOfWeek && WithinBounds(s, d)
}

func IsToday(s models.Schedule, today models.Date) bool {
	return OccursOn(s, today)
}

// NextOccurrence возвращает ближайшую дату занятия строго после today в пределах window дней.
// Сегодняшние занятия сюда не попадают: их отдает Today.
func NextOccurrence(s models.Schedule, today models.Date, window int) (models.Date, bool) {
	if today.IsZero() {
		return models.Date{}, false
	}
	if IsFixed(s) {
		diff := today.DaysUntil(s.SpecificDate)
		if diff > 0 && diff <= window {
			return s.SpecificDate, true
		}
		return models.Date{}, false
	}

	idx := s.DayOfWeek.Index()
	if idx < 0 {
		return models.Date{}, false
	}
	// занятие еще не началось, не показываем, пока не наступит start_date
	if !s.StartDate.IsZero() && today.Before(s.StartDate) {
		return models.Date{}, false
	}
	daysUntil := (idx - int(today.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	if daysUntil > window {
		return models.Date{}, false
	}
	next := today.AddDays(daysUntil)
	if !WithinBounds(s, next) {
		return models.Date{}, false
	}
	return next, true
}

// Today: занятия на сегодня, по времени начала.
func Today(schedules []models.Schedule, today models.Date) []models.Occurrence {
	out := make([]models.Occurrence, 0)
	for _, s := range schedules {
		if IsToday(s, today) {
			out = append(out, models.Occurrence{Schedule: s, Date: today})
		}
	}
	sortOccurrences(out)
	return out
}

// Upcoming: ближайшие занятия в окне window дней (без сегодняшних), не больше limit.
func Upcoming(schedules []models.Schedule, today models.Date, window, limit int) []models.Occurrence {
	out := make([]models.Occurrence, 0)
	for _, s := range schedules {
		if next, ok := NextOccurrence(s, today, window); ok {
			out = append(out, models.Occurrence{Schedule: s, Date: next, DaysUntil: today.DaysUntil(next)})
		}
	}
	sortOccurrences(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Week раскладывает занятия ближайших window+1 дней (начиная с сегодня) по колонкам пн..вс.
func Week(schedules []models.Schedule, today models.Date, window int) []models.WeekdayBucket {
	buckets := make([]models.WeekdayBucket, 0, len(models.WeekOrder))
	index := make(map[models.Weekday]int, len(models.WeekOrder))
	for i, day := range models.WeekOrder {
		offset := (day.Index() - int(today.Weekday()) + 7) % 7
		buckets = append(buckets, models.WeekdayBucket{
			Day:      day,
			Label:    day.Label(),
			Date:     today.AddDays(offset),
			Sessions: make([]models.Occurrence, 0),
		})
		index[day] = i
	}

	for _, s := range schedules {
		var date models.Date
		switch {
		case IsFixed(s):
			diff := today.DaysUntil(s.SpecificDate)
			if diff < 0 || diff > window {
				continue
			}
			date = s.SpecificDate
		case IsToday(s, today):
			date = today
		default:
			next, ok := NextOccurrence(s, today, window)
			if !ok {
				continue
			}
			date = next
		}
		i := index[models.WeekdayOf(date.Weekday())]
		buckets[i].Sessions = append(buckets[i].Sessions, models.Occurrence{
			Schedule:  s,
			Date:      date,
			DaysUntil: today.DaysUntil(date),
		})
	}

	for i := range buckets {
		sortOccurrences(buckets[i].Sessions)
	}
	return buckets
}

// Between: все занятия в интервале [from, to] включительно.
func Between(schedules []models.Schedule, from, to models.Date) []models.Occurrence {
	out := make([]models.Occurrence, 0)
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return out
	}
	if from.DaysUntil(to) > MaxRangeDays {
		to = from.AddDays(MaxRangeDays)
	}
	for d := from; !d.After(to); d = d.AddDays(1) {
		for _, s := range schedules {
			if OccursOn(s, d) {
				out = append(out, models.Occurrence{Schedule: s, Date: d})
			}
		}
	}
	sortOccurrences(out)
	return out
}

func sortOccurrences(items []models.Occurrence) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
