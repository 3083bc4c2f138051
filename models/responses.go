package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type PresignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	FileName  string    `json:"fileName"`
}

// ImportRowResult: результат импорта одной строки XLSX.
type ImportRowResult struct {
	Row        int    `json:"row"`
	Name       string `json:"name"`
	ScheduleID string `json:"schedule_id,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}
