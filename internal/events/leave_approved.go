package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const EventLeaveApproved = "leave.approved"

// LeaveApprovedEvent is produced by the leave-management system when a
// request reaches APPROVED. Dates are calendar days, YYYY-MM-DD.
type LeaveApprovedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
