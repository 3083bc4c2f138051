package handlers

import (
	"log"
	"net/http"

	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	backend services.Backend
}

func NewParticipantHandler(backend services.Backend) *ParticipantHandler {
	return &ParticipantHandler{backend: backend}
}

// GetPrograms возвращает список программ
func (h *ParticipantHandler) GetPrograms(c *gin.Context) {
	programs, err := h.backend.ListPrograms(c.Request.Context(), tokenFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if programs == nil {
		programs = make([]models.Program, 0)
	}
	c.JSON(http.StatusOK, gin.H{"data": programs})
}

// GetParticipants возвращает участников, при ?program= только этой программы
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	log.Println("ParticipantHandler - GetParticipants")
	raws, err := h.backend.ListParticipants(c.Request.Context(), tokenFrom(c), c.Query("program"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": services.NormalizeParticipants(raws)})
}

// GetMeasurements возвращает замеры участника с посчитанным ИМТ
func (h *ParticipantHandler) GetMeasurements(c *gin.Context) {
	items, err := h.backend.ListMeasurements(c.Request.Context(), tokenFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": services.EnrichMeasurements(items)})
}

// ComputeBMI считает ИМТ по весу (кг) и росту (см)
func (h *ParticipantHandler) ComputeBMI(c *gin.Context) {
	var req models.BMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	bmi, err := services.ComputeBMI(req.WeightKg, req.HeightCm)
	if err != nil {
		badRequest(c, "invalid measurement", err)
		return
	}
	category := services.ClassifyBMI(bmi)
	c.JSON(http.StatusOK, models.BMIResponse{
		BMI:      bmi,
		Category: category,
		Label:    services.BMILabel(category),
	})
}
