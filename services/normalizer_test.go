package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"training-center-api/models"
)

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		in   string
		want models.Weekday
	}{
		{"lunes", models.Monday},
		{"LUNES", models.Monday},
		{" Monday ", models.Monday},
		{"miércoles", models.Wednesday},
		{"MIERCOLES", models.Wednesday},
		{"Sábado", models.Saturday},
		{"sabado", models.Saturday},
		{"dom", models.Sunday},
		{"friday", models.Friday},
		{"", models.WeekdayNone},
	}
	for _, tt := range tests {
		got, err := NormalizeDay(tt.in)
		if err != nil {
			t.Errorf("NormalizeDay(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := NormalizeDay("funday"); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("unknown day err = %v", err)
	}
}

func TestNormalizeScheduleMixedPayload(t *testing.T) {
	payload := `[
		{"id": 7, "name": " Spinning ", "program": "Cardio", "dayOfWeek": "Miércoles",
		 "startTime": "8:00", "end_time": "09:30:00", "startDate": "2025-01-01T00:00:00.000Z", "location": "Sala 2"},
		{"id": "s2", "name": "Evaluación", "specific_date": "2025-02-10", "start_time": "10:00", "end_time": "11:00"},
		{"id": "s3", "name": "Yoga", "day_of_week": "caturday"},
		{"name": "sin id", "day_of_week": "lunes"},
		{"id": "s5", "name": "Pilates", "day_of_week": "", "start_time": "25:99"}
	]`
	var raws []models.RawSchedule
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		t.Fatal(err)
	}

	schedules, rejected := NewNormalizer().NormalizeSchedules(raws)
	if len(schedules) != 2 {
		t.Fatalf("got %d schedules, want 2: %+v", len(schedules), schedules)
	}
	if len(rejected) != 3 {
		t.Fatalf("got %d rejections, want 3: %+v", len(rejected), rejected)
	}

	s := schedules[0]
	if s.ID != "7" || s.Name != "Spinning" || s.DayOfWeek != models.Wednesday || s.DayLabel != "Miércoles" {
		t.Errorf("schedule[0] = %+v", s)
	}
	if s.StartTime != "08:00" || s.EndTime != "09:30" {
		t.Errorf("times = %q-%q", s.StartTime, s.EndTime)
	}
	if s.StartDate.String() != "2025-01-01" || !s.EndDate.IsZero() {
		t.Errorf("bounds = %s..%s", s.StartDate, s.EndDate)
	}

	fixed := schedules[1]
	if !IsFixed(fixed) || fixed.DayOfWeek != models.WeekdayNone || fixed.DayLabel != models.NoDayLabel {
		t.Errorf("fixed = %+v", fixed)
	}

	if rejected[0].ID != "s3" || rejected[0].Index != 2 {
		t.Errorf("rejected[0] = %+v", rejected[0])
	}
}

func TestNormalizeScheduleRejectsInvertedBounds(t *testing.T) {
	_, err := NewNormalizer().NormalizeSchedule(models.RawSchedule{
		ID: "x", DayOfWeekSnake: "lunes", StartDateSnake: "2025-02-01", EndDateSnake: "2025-01-01",
	})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	n := NewNormalizer()
	raws := []models.RawSchedule{
		{ID: "1", Name: "Box", Program: "Combate", DayOfWeek: "VIERNES", StartTime: "18:00", EndTime: "19:00", StartDate: "2025-01-01", EndDate: "2025-06-30", Location: "Ring"},
		{ID: "2", Name: "Test de Cooper", SpecificDateSnake: "2025-03-03", StartTimeSnake: "07:00:00", EndTimeSnake: "08:00"},
		{ID: "3", Name: "Libre"},
	}
	for _, raw := range raws {
		first, err := n.NormalizeSchedule(raw)
		if err != nil {
			t.Fatalf("normalize %s: %v", raw.ID, err)
		}
		second, err := n.NormalizeSchedule(ToRaw(first))
		if err != nil {
			t.Fatalf("re-normalize %s: %v", raw.ID, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("round trip changed %s:\n%+v\n%+v", raw.ID, first, second)
		}
	}
}

func TestNormalizeDraft(t *testing.T) {
	n := NewNormalizer()
	s, err := n.NormalizeDraft(InputToRaw("", models.ScheduleInput{
		Name: "Funcional", DayOfWeek: "martes", StartTime: "07:00", EndTime: "08:00",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "" || s.DayOfWeek != models.Tuesday {
		t.Errorf("draft = %+v", s)
	}

	cases := []models.ScheduleInput{
		{Name: "sin día", StartTime: "07:00", EndTime: "08:00"},
		{Name: "sin hora", DayOfWeek: "lunes"},
		{Name: "al revés", DayOfWeek: "lunes", StartTime: "09:00", EndTime: "08:00"},
	}
	for _, in := range cases {
		if _, err := n.NormalizeDraft(InputToRaw("", in)); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("%s: err = %v", in.Name, err)
		}
	}
}

func TestNormalizeAttendanceList(t *testing.T) {
	payload := `[
		{"participantId": 1, "scheduleId": "S1", "date": "2025-01-01", "status": "present"},
		{"participant_id": "2", "schedule_id": "S1", "date": "2025-01-01T12:00:00Z", "status": "AUSENTE"},
		{"participant_id": "3", "schedule_id": "S1", "date": "2025-01-01", "status": "Justificado"},
		{"participant_id": "4", "schedule_id": "S1", "date": "2025-01-01", "status": "tarde"},
		{"participant_id": "5", "date": "2025-01-01", "status": "present"}
	]`
	var raws []models.RawAttendance
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		t.Fatal(err)
	}
	records := NewNormalizer().NormalizeAttendanceList(raws)
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	want := []models.AttendanceStatus{models.StatusPresent, models.StatusAbsent, models.StatusJustified, models.StatusUnknown}
	for i, rec := range records {
		if rec.Status != want[i] {
			t.Errorf("records[%d].Status = %q, want %q", i, rec.Status, want[i])
		}
		if rec.Date.String() != "2025-01-01" || rec.ScheduleID != "S1" {
			t.Errorf("records[%d] = %+v", i, rec)
		}
	}
	if records[0].ParticipantID != "1" {
		t.Errorf("participant id = %q", records[0].ParticipantID)
	}
}

func TestNormalizeParticipant(t *testing.T) {
	p := NormalizeParticipant(models.RawParticipant{
		ID: "9", FullName: "Ana Pérez", DNI: "12345678", Type: "Estudiante", Status: "ACTIVO", ProgramID: "4",
	})
	want := models.Participant{ID: "9", Name: "Ana Pérez", DNI: "12345678", Type: models.ParticipantStudent, Status: models.ParticipantActive, Program: "4"}
	if p != want {
		t.Errorf("participant = %+v, want %+v", p, want)
	}
	if got := NormalizeParticipant(models.RawParticipant{Type: "Practicante", Status: "inactive"}); got.Type != models.ParticipantIntern || got.Status != models.ParticipantInactive {
		t.Errorf("participant = %+v", got)
	}
}

func TestNormalizeFixedIgnoresUnknownDay(t *testing.T) {
	s, err := NewNormalizer().NormalizeSchedule(models.RawSchedule{ID: "f", DayOfWeek: "festivo", SpecificDate: "2025-01-15"})
	if err != nil {
		t.Fatalf("fixed schedule rejected: %v", err)
	}
	if s.DayOfWeek != models.WeekdayNone || s.SpecificDate.String() != "2025-01-15" {
		t.Errorf("schedule = %+v", s)
	}
	if !IsToday(s, models.NewDate(2025, time.January, 15)) {
		t.Error("fixed schedule does not occur on its date")
	}

	if _, err := NewNormalizer().NormalizeSchedule(models.RawSchedule{ID: "r", DayOfWeek: "festivo"}); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("recurring schedule with unknown day: err = %v", err)
	}
}
