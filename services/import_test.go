package services

import (
	"bytes"
	"testing"

	"training-center-api/models"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestImportParse(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nombre", "Programa", "Día", "Inicio", "Fin", "Fecha inicio", "Fecha", "Lugar"},
		{" Yoga ", "Bienestar", "Lunes", "08:00", "09:00", "01/02/2025", "", "Sala 1"},
		{"", "", "", "", "", "", "", ""},
		{"Test de Cooper", "", "", "07:00", "08:00", "", "2025-03-03", "Pista"},
	})

	rows, err := NewScheduleImportParser().Parse(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first := rows[0]
	if first.Row != 2 || first.Raw.Name != "Yoga" || first.Raw.DayOfWeekSnake != "Lunes" || first.Raw.StartDateSnake != "2025-02-01" {
		t.Errorf("first = %+v", first)
	}
	if rows[1].Row != 4 || rows[1].Raw.SpecificDateSnake != "2025-03-03" {
		t.Errorf("second = %+v", rows[1])
	}

	n := NewNormalizer()
	for _, row := range rows {
		s, err := n.NormalizeDraft(row.Raw)
		if err != nil {
			t.Errorf("row %d: %v", row.Row, err)
			continue
		}
		if s.ID != "" {
			t.Errorf("row %d got id %q", row.Row, s.ID)
		}
	}
	yoga, _ := n.NormalizeDraft(rows[0].Raw)
	if yoga.DayOfWeek != models.Monday || yoga.Location != "Sala 1" {
		t.Errorf("yoga = %+v", yoga)
	}
}

func TestImportParseRequiresNameColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Día", "Inicio"},
		{"Lunes", "08:00"},
	})
	if _, err := NewScheduleImportParser().Parse(buf); err == nil {
		t.Error("header without name column accepted")
	}
}

func TestImportParseRejectsGarbage(t *testing.T) {
	if _, err := NewScheduleImportParser().Parse(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Error("garbage accepted as xlsx")
	}
}
