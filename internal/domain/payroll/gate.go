package payroll

import "fmt"

// GateWarnings classifies the run's employees before locking: employees with
// no summary at all, and employees whose unpaid leave will reduce pay. Both
// are for a human to double-check; neither stops the lock.
func GateWarnings(rows []EmployeePeriodRow) []Warning {
	var warnings []Warning
	for _, row := range rows {
		if !row.HasSummary {
			warnings = append(warnings, Warning{
				Code:       WarningMissingAttendance,
				EmployeeID: row.EmployeeID,
				Message:    "no attendance summary for the run period",
			})
			continue
		}
		if row.UnpaidLeaveDays.IsPositive() {
			warnings = append(warnings, Warning{
				Code:       WarningUnpaidLeave,
				EmployeeID: row.EmployeeID,
				Message:    fmt.Sprintf("%s unpaid leave day(s) in the run period", row.UnpaidLeaveDays),
			})
		}
	}
	return warnings
}
