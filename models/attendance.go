package models

type AttendanceStatus string

const (
	StatusUnknown   AttendanceStatus = ""
	StatusPresent   AttendanceStatus = "PRESENT"
	StatusAbsent    AttendanceStatus = "ABSENT"
	StatusJustified AttendanceStatus = "JUSTIFIED"
)

// AttendanceRecord: отметка одного участника на одном занятии.
type AttendanceRecord struct {
	ParticipantID string           `json:"participant_id"`
	ScheduleID    string           `json:"schedule_id"`
	Date          Date             `json:"date"`
	Status        AttendanceStatus `json:"status"`
	RawStatus     string           `json:"-"`
}

type RawAttendance struct {
	ParticipantID      FlexString `json:"participantId"`
	ParticipantIDSnake FlexString `json:"participant_id"`
	ScheduleID         FlexString `json:"scheduleId"`
	ScheduleIDSnake    FlexString `json:"schedule_id"`
	Date               string     `json:"date"`
	Status             string     `json:"status"`
	DecodeError        string     `json:"-"`
}

// HistorySummary: свод посещаемости по одному занятию (schedule_id + date).
type HistorySummary struct {
	ScheduleID   string `json:"schedule_id"`
	Date         Date   `json:"date"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Location     string `json:"location"`
	Presentes    int    `json:"presentes"`
	Ausentes     int    `json:"ausentes"`
	Justificados int    `json:"justificados"`
	Total        int    `json:"total"`
}

// AttendanceMark: одна отметка в запросе регистрации посещаемости.
type AttendanceMark struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

type AttendanceInput struct {
	ScheduleID string           `json:"schedule_id" binding:"required"`
	Date       string           `json:"date" binding:"required,datetime=2006-01-02"`
	Records    []AttendanceMark `json:"records" binding:"required,min=1,dive"`
}
