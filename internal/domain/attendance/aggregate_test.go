package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/internal/domain/policy"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// One working week, 2026-01-12 (Mon) .. 2026-01-16 (Fri).
func week() Period {
	return Period{Start: date(2026, 1, 12), End: date(2026, 1, 16)}
}

func TestComputeCountsDayStatuses(t *testing.T) {
	records := []DayRecord{
		{Date: date(2026, 1, 12), Status: DayPresent, WorkedHours: dec("8")},
		{Date: date(2026, 1, 13), Status: DayLate, WorkedHours: dec("7.5")},
		{Date: date(2026, 1, 14), Status: DayAbsent, WorkedHours: dec("0")},
		{Date: date(2026, 1, 15), Status: DayPresent, WorkedHours: dec("8")},
	}

	summary := Compute("e1", week(), records, nil, policy.Default())
	assert.Equal(t, 3, summary.DaysPresent, "a late day still counts as present")
	assert.Equal(t, 1, summary.DaysLate)
	assert.Equal(t, 1, summary.FullDayAbsents)
	assert.True(t, summary.TotalWorkingHours.Equal(dec("23.5")), "got %s", summary.TotalWorkingHours)
}

func TestComputePartitionsLeaveByPaid(t *testing.T) {
	leaveDays := []LeaveDay{
		{Date: date(2026, 1, 12), Fraction: dec("1"), IsPaid: true},
		{Date: date(2026, 1, 13), Fraction: dec("0.5"), IsPaid: true},
		{Date: date(2026, 1, 14), Fraction: dec("1"), IsPaid: false},
	}

	summary := Compute("e1", week(), nil, leaveDays, policy.Default())
	assert.True(t, summary.PaidLeaveDays.Equal(dec("1.5")), "got %s", summary.PaidLeaveDays)
	assert.True(t, summary.UnpaidLeaveDays.Equal(dec("1")), "got %s", summary.UnpaidLeaveDays)
}

func TestComputeOvertimeAgainstExpectedHours(t *testing.T) {
	// Five scheduled days at 8h = 40 expected; 44 worked → 4 overtime.
	records := []DayRecord{
		{Date: date(2026, 1, 12), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 13), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 14), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 15), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 16), Status: DayPresent, WorkedHours: dec("8")},
	}

	summary := Compute("e1", week(), records, nil, policy.Default())
	assert.True(t, summary.OvertimeHours.Equal(dec("4")), "got %s", summary.OvertimeHours)
}

func TestComputeHalfDayLeaveReducesExpectedHours(t *testing.T) {
	// Half-day leave on Friday lowers expectation by factor*standard = 4h:
	// expected 36, worked 38 → 2 overtime even though no single day ran long.
	records := []DayRecord{
		{Date: date(2026, 1, 12), Status: DayPresent, WorkedHours: dec("8")},
		{Date: date(2026, 1, 13), Status: DayPresent, WorkedHours: dec("8")},
		{Date: date(2026, 1, 14), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 15), Status: DayPresent, WorkedHours: dec("9")},
		{Date: date(2026, 1, 16), Status: DayPresent, WorkedHours: dec("4")},
	}
	leaveDays := []LeaveDay{{Date: date(2026, 1, 16), Fraction: dec("0.5"), IsPaid: true}}

	summary := Compute("e1", week(), records, leaveDays, policy.Default())
	assert.True(t, summary.OvertimeHours.Equal(dec("2")), "got %s", summary.OvertimeHours)
}

func TestComputeNoOvertimeWhenUnderExpected(t *testing.T) {
	records := []DayRecord{{Date: date(2026, 1, 12), Status: DayPresent, WorkedHours: dec("8")}}
	summary := Compute("e1", week(), records, nil, policy.Default())
	assert.True(t, summary.OvertimeHours.IsZero())
}

func TestComputeIsDeterministic(t *testing.T) {
	records := []DayRecord{
		{Date: date(2026, 1, 14), Status: DayLate, WorkedHours: dec("8")},
		{Date: date(2026, 1, 12), Status: DayPresent, WorkedHours: dec("8.25")},
		{Date: date(2026, 1, 13), Status: DayAbsent, WorkedHours: dec("0")},
	}
	leaveDays := []LeaveDay{
		{Date: date(2026, 1, 15), Fraction: dec("1"), IsPaid: true},
		{Date: date(2026, 1, 16), Fraction: dec("0.5"), IsPaid: false},
	}

	first := Compute("e1", week(), records, leaveDays, policy.Default())

	// Same inputs in a different order must not change a single field.
	shuffled := []DayRecord{records[2], records[0], records[1]}
	second := Compute("e1", week(), shuffled, leaveDays, policy.Default())

	require.Equal(t, first.DaysPresent, second.DaysPresent)
	require.Equal(t, first.DaysLate, second.DaysLate)
	require.Equal(t, first.FullDayAbsents, second.FullDayAbsents)
	require.True(t, first.PaidLeaveDays.Equal(second.PaidLeaveDays))
	require.True(t, first.UnpaidLeaveDays.Equal(second.UnpaidLeaveDays))
	require.True(t, first.TotalWorkingHours.Equal(second.TotalWorkingHours))
	require.True(t, first.OvertimeHours.Equal(second.OvertimeHours))
}
