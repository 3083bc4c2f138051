package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"training-center-api/config"
	"training-center-api/models"
)

// Backend: удаленное API центра, которое хранит все данные.
type Backend interface {
	ListSchedules(ctx context.Context, token string) ([]models.RawSchedule, error)
	GetSchedule(ctx context.Context, token, id string) (models.RawSchedule, error)
	CreateSchedule(ctx context.Context, token string, s models.Schedule) (models.RawSchedule, error)
	UpdateSchedule(ctx context.Context, token, id string, s models.Schedule) (models.RawSchedule, error)
	DeleteSchedule(ctx context.Context, token, id string) error
	ListPrograms(ctx context.Context, token string) ([]models.Program, error)
	ListParticipants(ctx context.Context, token, program string) ([]models.RawParticipant, error)
	RecordAttendance(ctx context.Context, token string, in models.AttendanceInput) (json.RawMessage, error)
	AttendanceHistory(ctx context.Context, token string, from, to models.Date) ([]models.RawAttendance, error)
	SessionDetail(ctx context.Context, token, scheduleID string, date models.Date) (models.RawSessionDetail, error)
	ListMeasurements(ctx context.Context, token, participantID string) ([]models.Measurement, error)
}

type BackendClient struct {
	baseURL string
	http    *http.Client
}

func NewBackendClient(cfg *config.Config) *BackendClient {
	return &BackendClient{
		baseURL: cfg.BackendURL,
		http:    &http.Client{Timeout: cfg.BackendTimeout},
	}
}

// scheduleBody: тело запроса на запись расписания в API.
type scheduleBody struct {
	Name         string `json:"name"`
	Program      string `json:"program,omitempty"`
	DayOfWeek    string `json:"day_of_week,omitempty"`
	SpecificDate string `json:"specific_date,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Location     string `json:"location,omitempty"`
}

func newScheduleBody(s models.Schedule) scheduleBody {
	return scheduleBody{
		Name:         s.Name,
		Program:      s.Program,
		DayOfWeek:    string(s.DayOfWeek),
		SpecificDate: s.SpecificDate.String(),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		StartDate:    s.StartDate.String(),
		EndDate:      s.EndDate.String(),
		Location:     s.Location,
	}
}

func (c *BackendClient) ListSchedules(ctx context.Context, token string) ([]models.RawSchedule, error) {
	var items []json.RawMessage
	if err := c.getJSON(ctx, token, "/schedules", nil, &items); err != nil {
		return nil, err
	}
	return decodeEach(items, func(item json.RawMessage, err error) models.RawSchedule {
		return models.RawSchedule{ID: peekID(item), DecodeError: err.Error()}
	}), nil
}

func (c *BackendClient) GetSchedule(ctx context.Context, token, id string) (models.RawSchedule, error) {
	var out models.RawSchedule
	err := c.getJSON(ctx, token, "/schedules/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *BackendClient) CreateSchedule(ctx context.Context, token string, s models.Schedule) (models.RawSchedule, error) {
	var out models.RawSchedule
	err := c.sendJSON(ctx, token, http.MethodPost, "/schedules", newScheduleBody(s), &out)
	return out, err
}

func (c *BackendClient) UpdateSchedule(ctx context.Context, token, id string, s models.Schedule) (models.RawSchedule, error) {
	var out models.RawSchedule
	err := c.sendJSON(ctx, token, http.MethodPut, "/schedules/"+url.PathEscape(id), newScheduleBody(s), &out)
	return out, err
}

func (c *BackendClient) DeleteSchedule(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, token, http.MethodDelete, "/schedules/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *BackendClient) ListPrograms(ctx context.Context, token string) ([]models.Program, error) {
	var out []models.Program
	err := c.getJSON(ctx, token, "/programs", nil, &out)
	return out, err
}

func (c *BackendClient) ListParticipants(ctx context.Context, token, program string) ([]models.RawParticipant, error) {
	query := url.Values{}
	if program != "" {
		query.Set("program", program)
	}
	var out []models.RawParticipant
	err := c.getJSON(ctx, token, "/participants", query, &out)
	return out, err
}

func (c *BackendClient) RecordAttendance(ctx context.Context, token string, in models.AttendanceInput) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.sendJSON(ctx, token, http.MethodPost, "/attendance", in, &out)
	return out, err
}

func (c *BackendClient) AttendanceHistory(ctx context.Context, token string, from, to models.Date) ([]models.RawAttendance, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.String())
	}
	if !to.IsZero() {
		query.Set("to", to.String())
	}
	var items []json.RawMessage
	if err := c.getJSON(ctx, token, "/attendance/history", query, &items); err != nil {
		return nil, err
	}
	return decodeEach(items, func(item json.RawMessage, err error) models.RawAttendance {
		return models.RawAttendance{DecodeError: err.Error()}
	}), nil
}

func (c *BackendClient) SessionDetail(ctx context.Context, token, scheduleID string, date models.Date) (models.RawSessionDetail, error) {
	var out models.RawSessionDetail
	path := fmt.Sprintf("/attendance/session/%s/%s", url.PathEscape(scheduleID), date)
	err := c.getJSON(ctx, token, path, nil, &out)
	return out, err
}

func (c *BackendClient) ListMeasurements(ctx context.Context, token, participantID string) ([]models.Measurement, error) {
	var out []models.Measurement
	err := c.getJSON(ctx, token, "/participants/"+url.PathEscape(participantID)+"/measurements", nil, &out)
	return out, err
}

func (c *BackendClient) getJSON(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	body, err := c.do(ctx, token, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodePayload(body, out)
}

func (c *BackendClient) sendJSON(ctx context.Context, token, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	body, err := c.do(ctx, token, method, path, nil, payload)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return decodePayload(body, out)
}

// do выполняет запрос и раскладывает ответы по видам ошибок:
// нет связи дает ErrServerDown, 401/403 дает ErrSessionExpired.
func (c *BackendClient) do(ctx context.Context, token, method, path string, query url.Values, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("backend %s %s failed: %v", method, path, err)
		return nil, fmt.Errorf("%w: %v", ErrServerDown, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrServerDown, err)
	}
	log.Printf("backend %s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %d", ErrServerDown, resp.StatusCode)
	case resp.StatusCode >= 300:
		return nil, &BackendError{Status: resp.StatusCode, Body: body}
	}
	return body, nil
}

// decodePayload понимает и голый JSON, и обертку {"data": ...}; {"data": null} оставляет out пустым.
func decodePayload(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err == nil {
			if data, ok := envelope["data"]; ok {
				data = bytes.TrimSpace(data)
				if len(data) == 0 || bytes.Equal(data, []byte("null")) {
					return nil
				}
				body = data
			}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// decodeEach разбирает элементы списка по одному; битый элемент заменяется результатом broken.
func decodeEach[T any](items []json.RawMessage, broken func(item json.RawMessage, err error) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			v = broken(item, err)
		}
		out = append(out, v)
	}
	return out
}

// peekID достает id из элемента, который не разобрался целиком.
func peekID(item json.RawMessage) models.FlexString {
	var head struct {
		ID models.FlexString `json:"id"`
	}
	_ = json.Unmarshal(item, &head)
	return head.ID
}
