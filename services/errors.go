package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrServerDown     = errors.New("backend unreachable")
	ErrSessionExpired = errors.New("session expired")
	ErrNotFound       = errors.New("not found")
	ErrUnknownDay     = errors.New("unknown day of week")
	ErrInvalidPayload = errors.New("invalid backend payload")
)

// BackendError: ответ API с кодом вне 2xx. Тело сохраняется как есть,
// чтобы ошибки валидации по полям ушли в форму без изменений.
type BackendError struct {
	Status int
	Body   []byte
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.Status)
}

func (e *BackendError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}
