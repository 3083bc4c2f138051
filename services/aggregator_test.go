package services

import (
	"reflect"
	"testing"
	"time"

	"training-center-api/models"
)

func TestAggregateSingleSession(t *testing.T) {
	day := models.NewDate(2025, time.January, 1)
	records := []models.AttendanceRecord{
		{ParticipantID: "1", ScheduleID: "S1", Date: day, Status: ParseStatus("present")},
		{ParticipantID: "2", ScheduleID: "S1", Date: day, Status: ParseStatus("absent")},
		{ParticipantID: "3", ScheduleID: "S1", Date: day, Status: ParseStatus("present")},
	}
	schedules := []models.Schedule{{ID: "S1", Name: "Natación", StartTime: "07:00", EndTime: "08:00", Location: "Piscina"}}

	got := Aggregate(records, schedules)
	want := []models.HistorySummary{{
		ScheduleID: "S1", Date: day, Name: "Natación", StartTime: "07:00", EndTime: "08:00", Location: "Piscina",
		Presentes: 2, Ausentes: 1, Total: 3,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %+v, want %+v", got, want)
	}
}

func TestAggregateTotalInvariant(t *testing.T) {
	day := models.NewDate(2025, time.January, 2)
	records := []models.AttendanceRecord{
		{ScheduleID: "S1", Date: day, Status: models.StatusPresent},
		{ScheduleID: "S1", Date: day, Status: models.StatusJustified},
		{ScheduleID: "S1", Date: day, Status: models.StatusUnknown},
		{ScheduleID: "S1", Date: day, Status: models.StatusAbsent},
	}
	got := Aggregate(records, nil)
	if len(got) != 1 {
		t.Fatalf("summaries = %d", len(got))
	}
	s := got[0]
	if s.Presentes != 1 || s.Ausentes != 1 || s.Justificados != 1 || s.Total != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.Total != s.Presentes+s.Ausentes {
		t.Errorf("total %d != presentes+ausentes", s.Total)
	}
}

func TestAggregateOrderAndIdempotence(t *testing.T) {
	d1 := models.NewDate(2025, time.January, 1)
	d2 := models.NewDate(2025, time.January, 8)
	records := []models.AttendanceRecord{
		{ScheduleID: "S2", Date: d1, Status: models.StatusPresent},
		{ScheduleID: "S1", Date: d2, Status: models.StatusAbsent},
		{ScheduleID: "S1", Date: d1, Status: models.StatusPresent},
		{ScheduleID: "S2", Date: d1, Status: models.StatusAbsent},
	}

	first := Aggregate(records, nil)
	second := Aggregate(records, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate is not idempotent:\n%+v\n%+v", first, second)
	}

	keys := make([]string, 0, len(first))
	for _, s := range first {
		keys = append(keys, s.Date.String()+"/"+s.ScheduleID)
	}
	want := []string{"2025-01-08/S1", "2025-01-01/S1", "2025-01-01/S2"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("order = %v, want %v", keys, want)
	}
	if first[2].Total != 2 {
		t.Errorf("S2 total = %d", first[2].Total)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Aggregate(nil) = %#v", got)
	}
}
