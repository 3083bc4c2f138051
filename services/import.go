package services

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"training-center-api/models"

	"github.com/xuri/excelize/v2"
)

// ImportRow: строка XLSX, разобранная в сырое расписание.
type ImportRow struct {
	Row int
	Raw models.RawSchedule
}

// importColumns: допустимые заголовки колонок (после foldKey).
var importColumns = map[string]string{
	"nombre": "name", "name": "name", "sesion": "name",
	"programa": "program", "program": "program",
	"dia": "day", "day": "day", "day_of_week": "day",
	"fecha": "specific_date", "specific_date": "specific_date", "date": "specific_date",
	"inicio": "start_time", "hora_inicio": "start_time", "start_time": "start_time",
	"fin": "end_time", "hora_fin": "end_time", "end_time": "end_time",
	"fecha_inicio": "start_date", "start_date": "start_date",
	"fecha_fin": "end_date", "end_date": "end_date",
	"lugar": "location", "location": "location", "sala": "location",
}

type ScheduleImportParser struct{}

func NewScheduleImportParser() *ScheduleImportParser {
	return &ScheduleImportParser{}
}

// Parse читает первый лист: первая строка с заголовками, дальше по занятию на строку.
func (p *ScheduleImportParser) Parse(file io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain a header row and at least one schedule")
	}

	columns := p.mapHeader(rows[0])
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("header must contain a name column, got %v", rows[0])
	}
	log.Printf("Импорт расписаний: колонок распознано %d, строк %d", len(columns), len(rows)-1)

	out := make([]ImportRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return p.cleanValue(row[idx])
		}
		if cell("name") == "" && cell("day") == "" && cell("specific_date") == "" {
			continue
		}
		out = append(out, ImportRow{
			Row: i + 1,
			Raw: models.RawSchedule{
				Name:              cell("name"),
				Program:           models.FlexString(cell("program")),
				DayOfWeekSnake:    cell("day"),
				SpecificDateSnake: p.cellDate(cell("specific_date")),
				StartTimeSnake:    cell("start_time"),
				EndTimeSnake:      cell("end_time"),
				StartDateSnake:    p.cellDate(cell("start_date")),
				EndDateSnake:      p.cellDate(cell("end_date")),
				Location:          cell("location"),
			},
		})
	}
	return out, nil
}

func (p *ScheduleImportParser) mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ReplaceAll(foldKey(p.cleanValue(h)), " ", "_")
		if field, ok := importColumns[key]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	return columns
}

// cellDate приводит "15/01/2025" к "2025-01-15"; остальное отдает как есть.
func (p *ScheduleImportParser) cellDate(value string) string {
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return value
}

// cleanValue очищает значение ячейки
func (p *ScheduleImportParser) cleanValue(value string) string {
	value = strings.TrimSpace(value)

	// Удаляем формулы вида ="текст"
	if strings.HasPrefix(value, "=") {
		value = strings.TrimPrefix(value, "=")
		value = strings.Trim(value, "\"")
	}

	value = strings.TrimSpace(value)
	if value == "" || value == "\"\"" {
		return ""
	}
	return value
}
