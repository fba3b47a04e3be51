package schedule

type WorkDaysResponse struct {
	EmployeeID string   `json:"employee_id"`
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	Dates      []string `json:"dates"`
	Count      int      `json:"count"`
}

type ApplyPatternRequest struct {
	EmployeeIDs    []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	Year           int      `json:"year" binding:"required,min=2000,max=2100"`
	Month          int      `json:"month" binding:"required,min=1,max=12"`
	WorkType       string   `json:"work_type" binding:"required,oneof=MORNING SHIFTS"`
	ShiftPattern   *string  `json:"shift_pattern" binding:"omitempty,oneof=FIXED 1x1 1x2 1x3"`
	DaysOfWeek     []int    `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	CycleStartDate *string  `json:"cycle_start_date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	BreakStart     *string  `json:"break_start"`
	BreakEnd       *string  `json:"break_end"`
}

type ApplyPatternOutcome struct {
	EmployeeID string `json:"employee_id"`
	Applied    bool   `json:"applied"`
	Error      string `json:"error,omitempty"`
}
