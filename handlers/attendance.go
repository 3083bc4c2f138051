package handlers

import (
	"fmt"
	"log"
	"net/http"

	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	backend      services.Backend
	dashboard    *services.DashboardService
	cacheService *services.CacheService
}

func NewAttendanceHandler(backend services.Backend, dashboard *services.DashboardService, cache *services.CacheService) *AttendanceHandler {
	return &AttendanceHandler{
		backend:      backend,
		dashboard:    dashboard,
		cacheService: cache,
	}
}

// GetHistory возвращает сводки посещаемости по занятиям (?from=&to=)
func (h *AttendanceHandler) GetHistory(c *gin.Context) {
	log.Println("AttendanceHandler - GetHistory")
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
	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"data": history,
	})
}

// RecordAttendance отправляет отметки занятия в API
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	log.Println("AttendanceHandler - RecordAttendance")
	var in models.AttendanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	for i := range in.Records {
		status := services.ParseStatus(in.Records[i].Status)
		if status == models.StatusUnknown {
			badRequest(c, "invalid attendance status", fmt.Errorf("record %d: unknown status %q", i, in.Records[i].Status))
			return
		}
		in.Records[i].Status = string(status)
	}

	result, err := h.backend.RecordAttendance(c.Request.Context(), tokenFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cacheService.DropSnapshots()

	if len(result) == 0 {
		c.JSON(http.StatusCreated, gin.H{"recorded": len(in.Records)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recorded": len(in.Records), "data": result})
}

// GetSession возвращает детали занятия с участниками и сводкой
func (h *AttendanceHandler) GetSession(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil || date.IsZero() {
		badRequest(c, "invalid session date", err)
		return
	}
	detail, err := h.dashboard.SessionDetail(c.Request.Context(), tokenFrom(c), c.Param("scheduleId"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}
