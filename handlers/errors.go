package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"training-center-api/middleware"
	"training-center-api/models"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
)

// respondError переводит ошибки сервисов в HTTP-ответы. Ошибки валидации API
// отдаются с исходным кодом и телом, чтобы форма показала сообщения по полям.
func respondError(c *gin.Context, err error) {
	var backendErr *services.BackendError
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "session_expired"})
	case errors.Is(err, services.ErrServerDown):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "server_down", Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.As(err, &backendErr) && backendErr.IsValidation():
		c.Data(backendErr.Status, "application/json", backendErr.Body)
	case errors.Is(err, services.ErrInvalidPayload), errors.Is(err, services.ErrUnknownDay):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "invalid data", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{Error: "server_down", Message: err.Error()})
	default:
		log.Printf("handler error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error", Message: err.Error()})
	}
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func tokenFrom(c *gin.Context) string {
	return c.GetString(middleware.TokenKey)
}

// dateRange читает ?from=&to=; пустые значения заменяются значениями по умолчанию.
func dateRange(c *gin.Context, defFrom, defTo models.Date) (models.Date, models.Date, error) {
	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	if from.IsZero() {
		from = defFrom
	}
	if to.IsZero() {
		to = defTo
	}
	if to.Before(from) {
		return models.Date{}, models.Date{}, errors.New("`to` must not be before `from`")
	}
	return from, to, nil
}
