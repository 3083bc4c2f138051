package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard возвращает снимок целиком
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	snap, err := h.dashboard.Snapshot(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// GetToday возвращает занятия на сегодня
func (h *DashboardHandler) GetToday(c *gin.Context) {
	snap, err := h.dashboard.Snapshot(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date": snap.Today,
		"data": snap.TodaySessions,
		"seq":  snap.Seq,
	})
}

// GetUpcoming возвращает ближайшие занятия; окно и лимит можно переопределить (?days=&limit=)
func (h *DashboardHandler) GetUpcoming(c *gin.Context) {
	opts := h.dashboard.Options()
	days, err := queryInt(c, "days", opts.UpcomingWindow)
	if err != nil || days < 0 {
		badRequest(c, "days must be a non-negative integer", err)
		return
	}
	limit, err := queryInt(c, "limit", opts.UpcomingLimit)
	if err != nil {
		badRequest(c, "limit must be an integer", err)
		return
	}

	snap, err := h.dashboard.Snapshot(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	data := snap.Upcoming
	if days != opts.UpcomingWindow || limit != opts.UpcomingLimit {
		data = services.Upcoming(snap.Schedules, snap.Today, days, limit)
	}
	c.JSON(http.StatusOK, gin.H{
		"date": snap.Today,
		"days": days,
		"data": data,
		"seq":  snap.Seq,
	})
}

// GetWeek возвращает недельный планировщик
func (h *DashboardHandler) GetWeek(c *gin.Context) {
	snap, err := h.dashboard.Snapshot(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date": snap.Today,
		"data": snap.Week,
		"seq":  snap.Seq,
	})
}

// Refresh: принудительное обновление (вкладка снова стала видимой)
func (h *DashboardHandler) Refresh(c *gin.Context) {
	log.Println("DashboardHandler - Refresh")
	snap, err := h.dashboard.Refresh(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// GetOccurrences возвращает занятия за интервал (?from=&to=, по умолчанию текущая неделя)
func (h *DashboardHandler) GetOccurrences(c *gin.Context) {
	today := h.dashboard.Today()
	from, to, err := dateRange(c, today, today.AddDays(h.dashboard.Options().WeekWindow))
	if err != nil {
		badRequest(c, "invalid date range", err)
		return
	}
	if from.DaysUntil(to) > services.MaxRangeDays {
		badRequest(c, "invalid date range", fmt.Errorf("range must not exceed %d days", services.MaxRangeDays))
		return
	}
	occurrences, err := h.dashboard.Occurrences(c.Request.Context(), tokenFrom(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"data": occurrences,
	})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
