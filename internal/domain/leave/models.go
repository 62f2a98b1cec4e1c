package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	IsPaid           bool            `json:"isPaid"`
	RequiresDoc      bool            `json:"requiresDoc"`
	RequiresApproval bool            `json:"requiresApproval"`
	DefaultDays      decimal.Decimal `json:"defaultDays"`
	AccrualRate      decimal.Decimal `json:"accrualRate"`
	CarryOverLimit   decimal.Decimal `json:"carryOverLimit"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// DaySpec is one requested day as submitted. Dates need not be contiguous.
type DaySpec struct {
	Date    time.Time `json:"date"`
	DayType string    `json:"dayType"`
}

type LeaveRequestDay struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	DayType string    `json:"dayType"`
}

type LeaveRequest struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employeeId"`
	LeaveTypeID string            `json:"leaveTypeId"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	TotalDays   decimal.Decimal   `json:"totalDays"`
	Reason      string            `json:"reason"`
	Status      string            `json:"status"`
	DecidedBy   string            `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time        `json:"decidedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	Days        []LeaveRequestDay `json:"days,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Balance is derived, never stored: recomputed from request rows on every read.
type Balance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Used      decimal.Decimal `json:"used"`
	Pending   decimal.Decimal `json:"pending"`
	Remaining decimal.Decimal `json:"remaining"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// YearPeriod is the default period context: the calendar year holding date.
func YearPeriod(date time.Time) Period {
	return Period{
		Start: time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(date.Year(), 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

type Conflict struct {
	RequestID    string          `json:"requestId"`
	EmployeeID   string          `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	LeaveTypeID  string          `json:"leaveTypeId"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	TotalDays    decimal.Decimal `json:"totalDays"`
}

// Warning travels alongside a successful result, never as an error.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
