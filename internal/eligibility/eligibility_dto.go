package eligibility

const (
	ReasonLeave           = "LEAVE"
	ReasonRestDay         = "REST_DAY"
	ReasonOfficialHoliday = "OFFICIAL_HOLIDAY"
)

// Result is the admit/deny decision for recording an absence. Reason is only
// set on denial and carries the business rule that fired.
type Result struct {
	CanAdd      bool   `json:"can_add"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message,omitempty"`
	HolidayName string `json:"holiday_name,omitempty"`
}

func deny(reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

func allow() Result {
	return Result{CanAdd: true}
}
