package attendance

import (
	"sort"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/policy"
)

// Compute rolls raw day records and approved leave days up into one summary.
// Pure and deterministic: identical inputs produce an identical summary, so
// re-aggregation without data changes is a byte-identical overwrite.
//
// A half-day leave does not erase a present or absent day; it reduces the
// expected hours for the period by bundle.HalfDayHourFactor of a standard
// day. Overtime is whatever worked hours exceed the reduced expectation.
func Compute(employeeID string, period Period, records []DayRecord, leaveDays []LeaveDay, bundle policy.Bundle) Summary {
	summary := Summary{
		EmployeeID:        employeeID,
		PeriodStart:       period.Start,
		PeriodEnd:         period.End,
		PaidLeaveDays:     decimal.Zero,
		UnpaidLeaveDays:   decimal.Zero,
		TotalWorkingHours: decimal.Zero,
		OvertimeHours:     decimal.Zero,
	}

	sorted := make([]DayRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for _, record := range sorted {
		switch record.Status {
		case DayPresent:
			summary.DaysPresent++
		case DayLate:
			summary.DaysPresent++
			summary.DaysLate++
		case DayAbsent:
			summary.FullDayAbsents++
		}
		summary.TotalWorkingHours = summary.TotalWorkingHours.Add(record.WorkedHours)
	}

	leaveHourReduction := decimal.Zero
	for _, day := range leaveDays {
		if day.IsPaid {
			summary.PaidLeaveDays = summary.PaidLeaveDays.Add(day.Fraction)
		} else {
			summary.UnpaidLeaveDays = summary.UnpaidLeaveDays.Add(day.Fraction)
		}
		if day.Fraction.Equal(decimal.NewFromInt(1)) {
			leaveHourReduction = leaveHourReduction.Add(bundle.StandardDailyHours)
		} else {
			leaveHourReduction = leaveHourReduction.Add(bundle.StandardDailyHours.Mul(bundle.HalfDayHourFactor))
		}
	}

	scheduled := decimal.NewFromInt(int64(bundle.WorkingDaysBetween(period.Start, period.End)))
	expected := bundle.StandardDailyHours.Mul(scheduled).Sub(leaveHourReduction)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	if overtime := summary.TotalWorkingHours.Sub(expected); overtime.IsPositive() {
		summary.OvertimeHours = overtime
	}

	return summary
}
