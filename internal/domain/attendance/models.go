package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DayPresent = "present"
	DayLate    = "late"
	DayAbsent  = "absent"
)

// DayRecord is one raw attendance fact for one employee and calendar date.
type DayRecord struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	WorkedHours decimal.Decimal `json:"workedHours"`
}

// LeaveDay is an approved leave day fraction feeding the aggregation,
// partitioned by whether its leave type is paid.
type LeaveDay struct {
	Date     time.Time
	Fraction decimal.Decimal
	IsPaid   bool
}

type Summary struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employeeId"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	DaysPresent       int             `json:"daysPresent"`
	DaysLate          int             `json:"daysLate"`
	FullDayAbsents    int             `json:"fullDayAbsents"`
	PaidLeaveDays     decimal.Decimal `json:"paidLeaveDays"`
	UnpaidLeaveDays   decimal.Decimal `json:"unpaidLeaveDays"`
	TotalWorkingHours decimal.Decimal `json:"totalWorkingHours"`
	OvertimeHours     decimal.Decimal `json:"overtimeHours"`
	IsLocked          bool            `json:"isLocked"`
	StaleLeave        bool            `json:"staleLeave"`
	ComputedAt        time.Time       `json:"computedAt"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
