package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultWorkWeek(t *testing.T) {
	b := Default()

	monday := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	require.True(t, b.IsWorkingDay(monday))
	require.False(t, b.IsWorkingDay(saturday))
	require.False(t, b.IsWorkingDay(sunday))
}

func TestWorkingDaysBetween(t *testing.T) {
	b := Default()

	// 2026-01-12 is a Monday; two full weeks have ten working days.
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 10, b.WorkingDaysBetween(start, end))

	require.Equal(t, 1, b.WorkingDaysBetween(start, start))
	require.Equal(t, 0, b.WorkingDaysBetween(end, start))
}

func TestCustomWorkWeek(t *testing.T) {
	b := New(
		[]time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		Default().StandardDailyHours,
		Default().HalfDayHourFactor,
		OverdrawBlock,
	)

	friday := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)
	require.False(t, b.IsWorkingDay(friday))
	require.True(t, b.IsWorkingDay(sunday))
	require.Equal(t, OverdrawBlock, b.Overdraw)
}
