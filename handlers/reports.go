package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path"

	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

// ReportStorage: хранилище выгруженных файлов (MinIO).
type ReportStorage interface {
	Save(ctx context.Context, objectPath string, data []byte, contentType string) (*models.PresignedURLResponse, error)
}

type ReportHandler struct {
	dashboard *services.DashboardService
	reports   *services.ReportService
	store     ReportStorage
}

// NewReportHandler: при store == nil файлы отдаются прямо в ответе.
func NewReportHandler(dashboard *services.DashboardService, reports *services.ReportService, store ReportStorage) *ReportHandler {
	return &ReportHandler{
		dashboard: dashboard,
		reports:   reports,
		store:     store,
	}
}

// AttendanceReport выгружает сводки посещаемости за интервал в XLSX
func (h *ReportHandler) AttendanceReport(c *gin.Context) {
	log.Println("ReportHandler - AttendanceReport")
	today := h.dashboard.Today()
	from, to, err := dateRange(c, today.AddDays(-h.dashboard.HistoryDays()), today)
	if err != nil {
		badRequest(c, "invalid date range", err)
		return
	}
	history, err := h.dashboard.History(c.Request.Context(), tokenFrom(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := h.reports.AttendanceWorkbook(history)
	if err != nil {
		respondError(c, err)
		return
	}
	h.deliver(c, services.ReportPath("attendance", from, to), data)
}

// WeekReport выгружает недельный планировщик в XLSX
func (h *ReportHandler) WeekReport(c *gin.Context) {
	log.Println("ReportHandler - WeekReport")
	snap, err := h.dashboard.Snapshot(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := h.reports.WeekWorkbook(snap.Week)
	if err != nil {
		respondError(c, err)
		return
	}
	to := snap.Today.AddDays(h.dashboard.Options().WeekWindow)
	h.deliver(c, services.ReportPath("week", snap.Today, to), data)
}

func (h *ReportHandler) deliver(c *gin.Context, objectPath string, data []byte) {
	if h.store == nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", path.Base(objectPath)))
		c.Data(http.StatusOK, services.XLSXContentType, data)
		return
	}
	urlResponse, err := h.store.Save(c.Request.Context(), objectPath, data, services.XLSXContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store report",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, urlResponse)
}
