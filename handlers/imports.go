package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 5 << 20

type ImportHandler struct {
	backend      services.Backend
	normalizer   *services.Normalizer
	parser       *services.ScheduleImportParser
	cacheService *services.CacheService
	store        ReportStorage
}

func NewImportHandler(backend services.Backend, normalizer *services.Normalizer, cache *services.CacheService, store ReportStorage) *ImportHandler {
	return &ImportHandler{
		backend:      backend,
		normalizer:   normalizer,
		parser:       services.NewScheduleImportParser(),
		cacheService: cache,
		store:        store,
	}
}

// ImportSchedules создает расписания из XLSX-файла (поле формы "file")
func (h *ImportHandler) ImportSchedules(c *gin.Context) {
	log.Println("ImportHandler - ImportSchedules")

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required", err)
		return
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file exceeds 5 MB"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		badRequest(c, "only .xlsx files are accepted", nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "failed to read file", err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		badRequest(c, "failed to read file", err)
		return
	}

	rows, err := h.parser.Parse(bytes.NewReader(content))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "invalid schedule file",
			Message: err.Error(),
		})
		return
	}

	results := make([]models.ImportRowResult, 0, len(rows))
	successCount := 0
	failureCount := 0

	// Обрабатываем каждую строку
	for _, row := range rows {
		result := h.importOne(c, row)
		results = append(results, result)

		if result.Success {
			successCount++
		} else {
			failureCount++
		}
	}
	if successCount > 0 {
		h.cacheService.DropSnapshots()
	}

	archived := ""
	if h.store != nil {
		objectPath := fmt.Sprintf("imports/%s_%s", time.Now().Format("20060102T150405"), filepath.Base(header.Filename))
		if _, err := h.store.Save(c.Request.Context(), objectPath, content, services.XLSXContentType); err != nil {
			log.Printf("Не удалось сохранить файл импорта %s: %v", objectPath, err)
		} else {
			archived = objectPath
		}
	}

	// Формируем итоговый ответ
	statusCode := http.StatusOK
	if failureCount > 0 && successCount == 0 {
		statusCode = http.StatusUnprocessableEntity
	} else if failureCount > 0 {
		statusCode = http.StatusMultiStatus
	}

	c.JSON(statusCode, gin.H{
		"message":   fmt.Sprintf("processed %d rows: %d succeeded, %d failed", len(rows), successCount, failureCount),
		"total":     len(rows),
		"succeeded": successCount,
		"failed":    failureCount,
		"results":   results,
		"archived":  archived,
	})
}

func (h *ImportHandler) importOne(c *gin.Context, row services.ImportRow) models.ImportRowResult {
	result := models.ImportRowResult{
		Row:  row.Row,
		Name: row.Raw.Name,
	}

	draft, err := h.normalizer.NormalizeDraft(row.Raw)
	if err != nil {
		result.Error = err.Error()
		log.Printf("Строка %d отклонена: %v", row.Row, err)
		return result
	}

	saved, err := h.backend.CreateSchedule(c.Request.Context(), tokenFrom(c), draft)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create schedule: %v", err)
		log.Printf("Ошибка создания расписания из строки %d: %v", row.Row, err)
		return result
	}

	result.ScheduleID = saved.ID.String()
	result.Success = true
	return result
}
