package leave

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	DayFull       = "full"
	DayFirstHalf  = "first_half"
	DaySecondHalf = "second_half"

	DecisionApprove = "approve"
	DecisionReject  = "reject"

	WarningOverdraw     = "overdraw"
	WarningTeamConflict = "team_conflict"
	WarningStaleSummary = "stale_locked_summary"
)
