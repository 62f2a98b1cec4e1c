package payroll

const (
	RunStatusDraft      = "draft"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"

	WarningMissingAttendance = "missing_attendance_data"
	WarningUnpaidLeave       = "unpaid_leave"
)
