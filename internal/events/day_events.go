package events

import "time"

const DayLifecycleTopic = "attendance.day.lifecycle.v1"

const (
	EventDayConsolidated = "attendance.day.consolidated.v1"
	EventDayReopened     = "attendance.day.reopened.v1"
)

type DayConsolidatedEvent struct {
	EventType    string    `json:"event_type"`
	ReportDate   string    `json:"report_date"`
	ApprovedBy   string    `json:"approved_by"`
	ReportCount  int       `json:"report_count"`
	AbsenceCount int       `json:"absence_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type DayReopenedEvent struct {
	EventType  string    `json:"event_type"`
	ReportDate string    `json:"report_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
