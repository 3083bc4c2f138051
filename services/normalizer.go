package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"training-center-api/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// dayNames: таблица перевода дней недели; ключи без диакритики и в нижнем регистре.
var dayNames = map[string]models.Weekday{
	"monday": models.Monday, "mon": models.Monday, "lunes": models.Monday, "lun": models.Monday,
	"tuesday": models.Tuesday, "tue": models.Tuesday, "martes": models.Tuesday, "mar": models.Tuesday,
	"wednesday": models.Wednesday, "wed": models.Wednesday, "miercoles": models.Wednesday, "mie": models.Wednesday,
	"thursday": models.Thursday, "thu": models.Thursday, "jueves": models.Thursday, "jue": models.Thursday,
	"friday": models.Friday, "fri": models.Friday, "viernes": models.Friday, "vie": models.Friday,
	"saturday": models.Saturday, "sat": models.Saturday, "sabado": models.Saturday, "sab": models.Saturday,
	"sunday": models.Sunday, "sun": models.Sunday, "domingo": models.Sunday, "dom": models.Sunday,
}

var statusNames = map[string]models.AttendanceStatus{
	"present": models.StatusPresent, "presente": models.StatusPresent, "asistio": models.StatusPresent,
	"absent": models.StatusAbsent, "ausente": models.StatusAbsent, "falta": models.StatusAbsent,
	"justified": models.StatusJustified, "justificado": models.StatusJustified, "excused": models.StatusJustified,
}

var participantTypes = map[string]models.ParticipantType{
	"student": models.ParticipantStudent, "estudiante": models.ParticipantStudent, "alumno": models.ParticipantStudent,
	"teacher": models.ParticipantTeacher, "docente": models.ParticipantTeacher, "profesor": models.ParticipantTeacher,
	"external": models.ParticipantExternal, "externo": models.ParticipantExternal,
	"intern": models.ParticipantIntern, "practicante": models.ParticipantIntern, "interno": models.ParticipantIntern,
}

var participantStatuses = map[string]models.ParticipantStatus{
	"active": models.ParticipantActive, "activo": models.ParticipantActive, "true": models.ParticipantActive,
	"inactive": models.ParticipantInactive, "inactivo": models.ParticipantInactive, "false": models.ParticipantInactive,
}

// foldKey убирает пробелы по краям, диакритику и приводит к нижнему регистру.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	return string(buf)
}

// NormalizeDay переводит имя дня (en/es, с ударениями или без) в каноническое.
// Пустое значение дает WeekdayNone, неизвестное дает ErrUnknownDay.
func NormalizeDay(s string) (models.Weekday, error) {
	key := foldKey(s)
	if key == "" {
		return models.WeekdayNone, nil
	}
	if day, ok := dayNames[key]; ok {
		return day, nil
	}
	return models.WeekdayNone, fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

// ParseStatus без учета регистра; нераспознанный статус дает StatusUnknown.
func ParseStatus(s string) models.AttendanceStatus {
	return statusNames[foldKey(s)]
}

// Rejection: запись API, которую не удалось привести к канонической форме.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type Normalizer struct {
	validate *validator.Validate
}

func NewNormalizer() *Normalizer {
	return &Normalizer{validate: validator.New()}
}

type canonicalSchedule struct {
	ID           string `validate:"required"`
	StartTime    string `validate:"omitempty,datetime=15:04"`
	EndTime      string `validate:"omitempty,datetime=15:04"`
	SpecificDate string `validate:"omitempty,datetime=2006-01-02"`
	StartDate    string `validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `validate:"omitempty,datetime=2006-01-02"`
}

// NormalizeSchedule приводит расписание API к каноническому виду.
func (n *Normalizer) NormalizeSchedule(raw models.RawSchedule) (models.Schedule, error) {
	if raw.DecodeError != "" {
		return models.Schedule{}, fmt.Errorf("%w: %s", ErrInvalidPayload, raw.DecodeError)
	}
	c := canonicalSchedule{
		ID:           strings.TrimSpace(raw.ID.String()),
		StartTime:    cleanClock(pick(raw.StartTimeSnake, raw.StartTime)),
		EndTime:      cleanClock(pick(raw.EndTimeSnake, raw.EndTime)),
		SpecificDate: cleanDate(pick(raw.SpecificDateSnake, raw.SpecificDate)),
		StartDate:    cleanDate(pick(raw.StartDateSnake, raw.StartDate)),
		EndDate:      cleanDate(pick(raw.EndDateSnake, raw.EndDate)),
	}
	if err := n.validate.Struct(c); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %s", ErrInvalidPayload, describeValidation(err))
	}

	day, err := NormalizeDay(pick(raw.DayOfWeekSnake, raw.DayOfWeek))
	if err != nil {
		if c.SpecificDate == "" {
			return models.Schedule{}, err
		}
		// у разового занятия день недели не используется
		log.Printf("normalizer: schedule %q has specific_date, day ignored: %v", c.ID, err)
		day = models.WeekdayNone
	}

	// форматы уже проверены валидатором
	specific, _ := models.ParseDate(c.SpecificDate)
	start, _ := models.ParseDate(c.StartDate)
	end, _ := models.ParseDate(c.EndDate)
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return models.Schedule{}, fmt.Errorf("%w: end_date %s before start_date %s", ErrInvalidPayload, end, start)
	}

	return models.Schedule{
		ID:           c.ID,
		Name:         strings.TrimSpace(raw.Name),
		Program:      strings.TrimSpace(raw.Program.String()),
		DayOfWeek:    day,
		DayLabel:     day.Label(),
		SpecificDate: specific,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		StartDate:    start,
		EndDate:      end,
		Location:     strings.TrimSpace(raw.Location),
	}, nil
}

// draftID временно подставляется в записи без id (новые расписания с формы или из импорта).
const draftID = "draft"

// NormalizeDraft проверяет данные для записи в API: нужен день недели или дата и время занятия.
func (n *Normalizer) NormalizeDraft(raw models.RawSchedule) (models.Schedule, error) {
	if strings.TrimSpace(raw.ID.String()) == "" {
		raw.ID = draftID
	}
	s, err := n.NormalizeSchedule(raw)
	if err != nil {
		return models.Schedule{}, err
	}
	if s.ID == draftID {
		s.ID = ""
	}
	if s.DayOfWeek == models.WeekdayNone && !IsFixed(s) {
		return models.Schedule{}, fmt.Errorf("%w: day_of_week or specific_date is required", ErrInvalidPayload)
	}
	if s.StartTime == "" || s.EndTime == "" {
		return models.Schedule{}, fmt.Errorf("%w: start_time and end_time are required", ErrInvalidPayload)
	}
	if s.EndTime <= s.StartTime {
		return models.Schedule{}, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidPayload)
	}
	return s, nil
}

// NormalizeSchedules возвращает корректные расписания и список отклоненных записей.
func (n *Normalizer) NormalizeSchedules(raws []models.RawSchedule) ([]models.Schedule, []Rejection) {
	out := make([]models.Schedule, 0, len(raws))
	rejected := make([]Rejection, 0)
	for i, raw := range raws {
		s, err := n.NormalizeSchedule(raw)
		if err != nil {
			log.Printf("normalizer: schedule #%d (id=%q) rejected: %v", i, raw.ID, err)
			rejected = append(rejected, Rejection{Index: i, ID: raw.ID.String(), Reason: err.Error()})
			continue
		}
		out = append(out, s)
	}
	return out, rejected
}

// ToRaw возвращает расписание в канонической snake_case форме API.
func ToRaw(s models.Schedule) models.RawSchedule {
	return models.RawSchedule{
		ID:                models.FlexString(s.ID),
		Name:              s.Name,
		Program:           models.FlexString(s.Program),
		DayOfWeekSnake:    string(s.DayOfWeek),
		SpecificDateSnake: s.SpecificDate.String(),
		StartTimeSnake:    s.StartTime,
		EndTimeSnake:      s.EndTime,
		StartDateSnake:    s.StartDate.String(),
		EndDateSnake:      s.EndDate.String(),
		Location:          s.Location,
	}
}

// InputToRaw превращает данные формы в сырую запись, чтобы прогнать ее через нормализатор.
func InputToRaw(id string, in models.ScheduleInput) models.RawSchedule {
	return models.RawSchedule{
		ID:                models.FlexString(id),
		Name:              in.Name,
		Program:           models.FlexString(in.Program),
		DayOfWeekSnake:    in.DayOfWeek,
		SpecificDateSnake: in.SpecificDate,
		StartTimeSnake:    in.StartTime,
		EndTimeSnake:      in.EndTime,
		StartDateSnake:    in.StartDate,
		EndDateSnake:      in.EndDate,
		Location:          in.Location,
	}
}

type canonicalAttendance struct {
	ScheduleID string `validate:"required"`
	Date       string `validate:"required,datetime=2006-01-02"`
}

func (n *Normalizer) NormalizeAttendance(raw models.RawAttendance) (models.AttendanceRecord, error) {
	if raw.DecodeError != "" {
		return models.AttendanceRecord{}, fmt.Errorf("%w: %s", ErrInvalidPayload, raw.DecodeError)
	}
	c := canonicalAttendance{
		ScheduleID: strings.TrimSpace(pick(raw.ScheduleIDSnake.String(), raw.ScheduleID.String())),
		Date:       cleanDate(raw.Date),
	}
	if err := n.validate.Struct(c); err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("%w: %s", ErrInvalidPayload, describeValidation(err))
	}
	date, _ := models.ParseDate(c.Date)
	return models.AttendanceRecord{
		ParticipantID: strings.TrimSpace(pick(raw.ParticipantIDSnake.String(), raw.ParticipantID.String())),
		ScheduleID:    c.ScheduleID,
		Date:          date,
		Status:        ParseStatus(raw.Status),
		RawStatus:     raw.Status,
	}, nil
}

func (n *Normalizer) NormalizeAttendanceList(raws []models.RawAttendance) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := n.NormalizeAttendance(raw)
		if err != nil {
			log.Printf("normalizer: attendance row #%d rejected: %v", i, err)
			continue
		}
		if rec.Status == models.StatusUnknown {
			log.Printf("normalizer: attendance row #%d has unrecognized status %q", i, raw.Status)
		}
		out = append(out, rec)
	}
	return out
}

func NormalizeParticipant(raw models.RawParticipant) models.Participant {
	p := models.Participant{
		ID:      strings.TrimSpace(raw.ID.String()),
		Name:    strings.TrimSpace(pick(raw.Name, raw.FullName)),
		DNI:     strings.TrimSpace(raw.DNI.String()),
		Program: strings.TrimSpace(pick(raw.Program.String(), raw.ProgramID.String())),
	}
	key := foldKey(raw.Type)
	if t, ok := participantTypes[key]; ok {
		p.Type = t
	} else {
		p.Type = models.ParticipantType(key)
	}
	key = foldKey(raw.Status)
	if s, ok := participantStatuses[key]; ok {
		p.Status = s
	} else {
		p.Status = models.ParticipantStatus(key)
	}
	return p
}

func NormalizeParticipants(raws []models.RawParticipant) []models.Participant {
	out := make([]models.Participant, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeParticipant(raw))
	}
	return out
}

// pick возвращает первое непустое значение.
func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func cleanDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(models.DateLayout) && (s[len(models.DateLayout)] == 'T' || s[len(models.DateLayout)] == ' ') {
		s = s[:len(models.DateLayout)]
	}
	return s
}

// cleanClock приводит "8:00" и "08:00:00" к "08:00"; нераспознанное оставляет валидатору.
func cleanClock(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return s
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
