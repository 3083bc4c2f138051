package models

import "encoding/json"

type ParticipantType string

const (
	ParticipantStudent  ParticipantType = "student"
	ParticipantTeacher  ParticipantType = "teacher"
	ParticipantExternal ParticipantType = "external"
	ParticipantIntern   ParticipantType = "intern"
)

type ParticipantStatus string

const (
	ParticipantActive   ParticipantStatus = "active"
	ParticipantInactive ParticipantStatus = "inactive"
)

type Participant struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	DNI     string            `json:"dni"`
	Type    ParticipantType   `json:"type"`
	Status  ParticipantStatus `json:"status"`
	Program string            `json:"program,omitempty"`
}

type RawParticipant struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	FullName  string     `json:"full_name"`
	DNI       FlexString `json:"dni"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Program   FlexString `json:"program"`
	ProgramID FlexString `json:"program_id"`
}

type Program struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
}

// Measurement: антропометрический замер участника.
type Measurement struct {
	ID            FlexString `json:"id"`
	ParticipantID FlexString `json:"participant_id"`
	Date          Date       `json:"date"`
	WeightKg      float64    `json:"weight"`
	HeightCm      float64    `json:"height"`
	BMI           float64    `json:"bmi"`
	Category      string     `json:"bmi_category"`
}

type BMIRequest struct {
	WeightKg float64 `json:"weight" binding:"required,gt=0,lte=500"`
	HeightCm float64 `json:"height" binding:"required,gt=0,lte=300"`
}

type BMIResponse struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Label    string  `json:"label"`
}

// SessionDetail: детали занятия от API; состав участников и тесты
// передаются дальше как есть.
type SessionDetail struct {
	Schedule     Schedule        `json:"schedule"`
	Date         Date            `json:"date"`
	Participants json.RawMessage `json:"participants,omitempty"`
	Tests        json.RawMessage `json:"tests,omitempty"`
	Summary      *HistorySummary `json:"summary,omitempty"`
}

// RawSessionDetail: ответ API на запрос деталей занятия.
type RawSessionDetail struct {
	Schedule     RawSchedule     `json:"schedule"`
	Participants json.RawMessage `json:"participants"`
	Tests        json.RawMessage `json:"tests"`
	Attendance   []RawAttendance `json:"attendance"`
}
