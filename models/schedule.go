package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Weekday: каноническое имя дня недели (английский, нижний регистр).
type Weekday string

const (
	WeekdayNone Weekday = ""
	Monday      Weekday = "monday"
	Tuesday     Weekday = "tuesday"
	Wednesday   Weekday = "wednesday"
	Thursday    Weekday = "thursday"
	Friday      Weekday = "friday"
	Saturday    Weekday = "saturday"
	Sunday      Weekday = "sunday"
)

// NoDayLabel показывается вместо дня, если он не назначен.
const NoDayLabel = "Sin día asignado"

// WeekOrder: порядок колонок недельного планировщика.
var WeekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
	Saturday:  "Sábado",
	Sunday:    "Domingo",
}

var fromTimeWeekday = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func WeekdayOf(wd time.Weekday) Weekday {
	return fromTimeWeekday[wd]
}

// Index возвращает номер дня как в time.Weekday (0 = воскресенье) или -1 без дня.
func (w Weekday) Index() int {
	for tw, name := range fromTimeWeekday {
		if name == w {
			return int(tw)
		}
	}
	return -1
}

func (w Weekday) Label() string {
	if label, ok := weekdayLabels[w]; ok {
		return label
	}
	return NoDayLabel
}

// Schedule: шаблон занятия: либо еженедельное (DayOfWeek), либо разовое (SpecificDate).
type Schedule struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Program      string  `json:"program"`
	DayOfWeek    Weekday `json:"day_of_week"`
	DayLabel     string  `json:"day_label"`
	SpecificDate Date    `json:"specific_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	StartDate    Date    `json:"start_date"`
	EndDate      Date    `json:"end_date"`
	Location     string  `json:"location"`
}

// Occurrence: конкретное занятие шаблона в конкретный день.
type Occurrence struct {
	Schedule
	Date      Date `json:"date"`
	DaysUntil int  `json:"days_until"`
}

// WeekdayBucket: колонка недельного планировщика.
type WeekdayBucket struct {
	Day      Weekday      `json:"day"`
	Label    string       `json:"label"`
	Date     Date         `json:"date"`
	Sessions []Occurrence `json:"sessions"`
}

// RawSchedule: расписание в том виде, в каком его отдает API: поля бывают
// и в camelCase, и в snake_case, дни недели на английском или испанском.
type RawSchedule struct {
	ID                FlexString `json:"id"`
	Name              string     `json:"name"`
	Program           FlexString `json:"program"`
	DayOfWeek         string     `json:"dayOfWeek"`
	DayOfWeekSnake    string     `json:"day_of_week"`
	SpecificDate      string     `json:"specificDate"`
	SpecificDateSnake string     `json:"specific_date"`
	StartTime         string     `json:"startTime"`
	StartTimeSnake    string     `json:"start_time"`
	EndTime           string     `json:"endTime"`
	EndTimeSnake      string     `json:"end_time"`
	StartDate         string     `json:"startDate"`
	StartDateSnake    string     `json:"start_date"`
	EndDate           string     `json:"endDate"`
	EndDateSnake      string     `json:"end_date"`
	Location          string     `json:"location"`

	// DecodeError заполняется клиентом API, если элемент списка не разобрался.
	DecodeError string `json:"-"`
}

// ScheduleInput: тело запроса на создание/изменение расписания.
type ScheduleInput struct {
	Name         string `json:"name" binding:"required"`
	Program      string `json:"program"`
	DayOfWeek    string `json:"day_of_week"`
	SpecificDate string `json:"specific_date"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Location     string `json:"location"`
}

// FlexString принимает строку, число или null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null" || s == "":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
	case strings.HasPrefix(s, "{"):
		// программа иногда приходит объектом {"id": .., "name": ..}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*f = FlexString(obj.Name)
	default:
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return err
		}
		*f = FlexString(s)
	}
	return nil
}

func (f FlexString) String() string { return string(f) }
