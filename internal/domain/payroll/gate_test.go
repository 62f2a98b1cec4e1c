package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateWarningsMissingSummary(t *testing.T) {
	rows := []EmployeePeriodRow{
		{EmployeeID: "e1", HasSummary: true, UnpaidLeaveDays: decimal.Zero},
		{EmployeeID: "e2", HasSummary: false},
	}

	warnings := GateWarnings(rows)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningMissingAttendance, warnings[0].Code)
	assert.Equal(t, "e2", warnings[0].EmployeeID)
}

func TestGateWarningsUnpaidLeave(t *testing.T) {
	rows := []EmployeePeriodRow{
		{EmployeeID: "e1", HasSummary: true, UnpaidLeaveDays: decimal.NewFromFloat(1.5)},
	}

	warnings := GateWarnings(rows)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningUnpaidLeave, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "1.5")
}

func TestGateWarningsMissingSummaryShadowsUnpaid(t *testing.T) {
	// No summary means unpaid leave days are unknown; only the missing
	// data warning is raised.
	rows := []EmployeePeriodRow{
		{EmployeeID: "e1", HasSummary: false, UnpaidLeaveDays: decimal.NewFromInt(2)},
	}

	warnings := GateWarnings(rows)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningMissingAttendance, warnings[0].Code)
}

func TestGateWarningsCleanRows(t *testing.T) {
	rows := []EmployeePeriodRow{
		{EmployeeID: "e1", HasSummary: true, UnpaidLeaveDays: decimal.Zero},
		{EmployeeID: "e2", HasSummary: true, AlreadyLocked: true, UnpaidLeaveDays: decimal.Zero},
	}

	assert.Empty(t, GateWarnings(rows))
}
