package services

import (
	"bytes"
	"testing"
	"time"

	"training-center-api/models"

	"github.com/xuri/excelize/v2"
)

func openRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("rows of %s: %v", sheet, err)
	}
	return rows
}

func TestAttendanceWorkbook(t *testing.T) {
	data, err := NewReportService().AttendanceWorkbook([]models.HistorySummary{{
		ScheduleID: "S1", Date: models.NewDate(2025, time.January, 1), Name: "Natación",
		StartTime: "07:00", EndTime: "08:00", Location: "Piscina",
		Presentes: 2, Ausentes: 1, Justificados: 1, Total: 3,
	}})
	if err != nil {
		t.Fatal(err)
	}
	rows := openRows(t, data, "Asistencia")
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Fecha" || rows[0][8] != "Total" {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"2025-01-01", "Natación", "07:00", "08:00", "Piscina", "2", "1", "1", "3"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("cell %d = %q, want %q", i, rows[1][i], v)
		}
	}
}

func TestWeekWorkbook(t *testing.T) {
	schedules := []models.Schedule{
		{ID: "1", Name: "Yoga", Program: "Bienestar", DayOfWeek: models.Monday, StartTime: "08:00", EndTime: "09:00"},
		{ID: "2", Name: "Box", DayOfWeek: models.Friday, StartTime: "18:00", EndTime: "19:00"},
	}
	data, err := NewReportService().WeekWorkbook(Week(schedules, monday, 6))
	if err != nil {
		t.Fatal(err)
	}
	rows := openRows(t, data, "Semana")
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[1][0] != "Lunes" || rows[1][4] != "Yoga" || rows[1][5] != "Bienestar" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "Viernes" || rows[2][1] != "2025-01-17" {
		t.Errorf("row 2 = %v", rows[2])
	}
}
