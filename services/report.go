package services

import (
	"fmt"

	"training-center-api/models"

	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// AttendanceWorkbook строит XLSX со сводками посещаемости.
func (s *ReportService) AttendanceWorkbook(summaries []models.HistorySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Asistencia"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{"Fecha", "Sesión", "Inicio", "Fin", "Lugar", "Presentes", "Ausentes", "Justificados", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, h := range summaries {
		row := []interface{}{h.Date.String(), h.Name, h.StartTime, h.EndTime, h.Location, h.Presentes, h.Ausentes, h.Justificados, h.Total}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return nil, err
	}
	return writeWorkbook(f)
}

// WeekWorkbook строит XLSX недельного планировщика: одна строка на занятие.
func (s *ReportService) WeekWorkbook(buckets []models.WeekdayBucket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Semana"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{"Día", "Fecha", "Inicio", "Fin", "Sesión", "Programa", "Lugar"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	rowIdx := 2
	for _, bucket := range buckets {
		for _, occ := range bucket.Sessions {
			row := []interface{}{bucket.Label, occ.Date.String(), occ.StartTime, occ.EndTime, occ.Name, occ.Program, occ.Location}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowIdx, err)
			}
			rowIdx++
		}
	}
	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
