package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Run struct {
	ID          string     `json:"id"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// EmployeePeriodRow is the gate's view of one employee for the run's period.
type EmployeePeriodRow struct {
	EmployeeID      string
	HasSummary      bool
	AlreadyLocked   bool
	UnpaidLeaveDays decimal.Decimal
}

// Warning is informational output of the gate; warnings never block locking.
type Warning struct {
	Code       string `json:"code"`
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
}

type LockFailure struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type GateResult struct {
	RunID         string        `json:"runId"`
	Locked        int           `json:"locked"`
	AlreadyLocked int           `json:"alreadyLocked"`
	Warnings      []Warning     `json:"warnings,omitempty"`
	Failures      []LockFailure `json:"failures,omitempty"`
}

type RegisterRow struct {
	EmployeeID        string
	EmployeeName      string
	DaysPresent       int
	FullDayAbsents    int
	PaidLeaveDays     decimal.Decimal
	UnpaidLeaveDays   decimal.Decimal
	TotalWorkingHours decimal.Decimal
	OvertimeHours     decimal.Decimal
}
