package handlers

import (
	"log"
	"net/http"

	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	backend      services.Backend
	dashboard    *services.DashboardService
	normalizer   *services.Normalizer
	cacheService *services.CacheService
}

func NewScheduleHandler(backend services.Backend, dashboard *services.DashboardService, normalizer *services.Normalizer, cache *services.CacheService) *ScheduleHandler {
	return &ScheduleHandler{
		backend:      backend,
		dashboard:    dashboard,
		normalizer:   normalizer,
		cacheService: cache,
	}
}

// GetSchedules возвращает нормализованные расписания и отклоненные записи
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	log.Println("ScheduleHandler - GetSchedules")
	schedules, rejected, err := h.dashboard.Schedules(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     schedules,
		"rejected": rejected,
	})
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	raw, err := h.backend.GetSchedule(c.Request.Context(), tokenFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	schedule, err := h.normalizer.NormalizeSchedule(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	log.Println("ScheduleHandler - CreateSchedule")
	draft, ok := h.bindDraft(c, "")
	if !ok {
		return
	}
	raw, err := h.backend.CreateSchedule(c.Request.Context(), tokenFrom(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cacheService.DropSnapshots()
	c.JSON(http.StatusCreated, gin.H{"data": h.saved(raw, draft)})
}

func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	log.Println("ScheduleHandler - UpdateSchedule")
	id := c.Param("id")
	draft, ok := h.bindDraft(c, id)
	if !ok {
		return
	}
	raw, err := h.backend.UpdateSchedule(c.Request.Context(), tokenFrom(c), id, draft)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cacheService.DropSnapshots()
	c.JSON(http.StatusOK, gin.H{"data": h.saved(raw, draft)})
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	log.Println("ScheduleHandler - DeleteSchedule")
	if err := h.backend.DeleteSchedule(c.Request.Context(), tokenFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.cacheService.DropSnapshots()
	c.Status(http.StatusNoContent)
}

// InvalidateCache сбрасывает снимки дашборда
func (h *ScheduleHandler) InvalidateCache(c *gin.Context) {
	h.cacheService.DropSnapshots()
	c.JSON(http.StatusOK, gin.H{
		"message": "cache invalidated successfully",
	})
}

func (h *ScheduleHandler) bindDraft(c *gin.Context, id string) (models.Schedule, bool) {
	var in models.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return models.Schedule{}, false
	}
	draft, err := h.normalizer.NormalizeDraft(services.InputToRaw(id, in))
	if err != nil {
		respondError(c, err)
		return models.Schedule{}, false
	}
	return draft, true
}

// saved нормализует ответ API; если API вернул пустое тело, отдается отправленный черновик.
func (h *ScheduleHandler) saved(raw models.RawSchedule, draft models.Schedule) models.Schedule {
	if raw.ID == "" {
		return draft
	}
	schedule, err := h.normalizer.NormalizeSchedule(raw)
	if err != nil {
		log.Printf("saved schedule %q not normalized: %v", raw.ID, err)
		draft.ID = raw.ID.String()
		return draft
	}
	return schedule
}
