package leave

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

func TestTotalDaysFullAndHalf(t *testing.T) {
	// Monday full plus Tuesday first half.
	days := []DaySpec{
		{Date: date(2026, 1, 12), DayType: DayFull},
		{Date: date(2026, 1, 13), DayType: DayFirstHalf},
	}
	total, err := TotalDays(days)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1.5")), "got %s", total)
}

func TestTotalDaysAllHalves(t *testing.T) {
	days := []DaySpec{
		{Date: date(2026, 1, 12), DayType: DayFirstHalf},
		{Date: date(2026, 1, 13), DayType: DaySecondHalf},
		{Date: date(2026, 1, 14), DayType: DayFirstHalf},
		{Date: date(2026, 1, 15), DayType: DaySecondHalf},
	}
	total, err := TotalDays(days)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(2)), "half days contribute 0.5 each, got %s", total)
}

func TestTotalDaysUnknownType(t *testing.T) {
	_, err := TotalDays([]DaySpec{{Date: date(2026, 1, 12), DayType: "quarter"}})
	require.Error(t, err)
}

func TestValidateDaySpecsEmpty(t *testing.T) {
	err := ValidateDaySpecs(nil, policy.Default())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateDaySpecsDuplicateDate(t *testing.T) {
	days := []DaySpec{
		{Date: date(2026, 1, 12), DayType: DayFull},
		{Date: date(2026, 1, 12), DayType: DayFirstHalf},
	}
	err := ValidateDaySpecs(days, policy.Default())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Issues[0].Reason, "duplicate")
}

func TestValidateDaySpecsWeekend(t *testing.T) {
	days := []DaySpec{{Date: date(2026, 1, 17), DayType: DayFull}} // Saturday
	err := ValidateDaySpecs(days, policy.Default())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Issues[0].Reason, "not a working day")
}

func TestValidateDaySpecsNonContiguousOK(t *testing.T) {
	days := []DaySpec{
		{Date: date(2026, 1, 12), DayType: DayFull},
		{Date: date(2026, 1, 16), DayType: DayFull}, // Friday, gap in between
	}
	require.NoError(t, ValidateDaySpecs(days, policy.Default()))
}

func TestDateBoundsNonContiguous(t *testing.T) {
	days := []DaySpec{
		{Date: date(2026, 1, 16), DayType: DayFull},
		{Date: date(2026, 1, 12), DayType: DayFull},
		{Date: date(2026, 1, 14), DayType: DayFirstHalf},
	}
	start, end := DateBounds(days)
	assert.Equal(t, date(2026, 1, 12), start)
	assert.Equal(t, date(2026, 1, 16), end)
}

func TestRangesOverlapInclusive(t *testing.T) {
	// Back-to-back ranges sharing an endpoint overlap.
	assert.True(t, RangesOverlap(
		date(2026, 2, 1), date(2026, 2, 5),
		date(2026, 2, 5), date(2026, 2, 10),
	))
	assert.True(t, RangesOverlap(
		date(2026, 2, 1), date(2026, 2, 5),
		date(2026, 2, 3), date(2026, 2, 10),
	))
	assert.False(t, RangesOverlap(
		date(2026, 2, 1), date(2026, 2, 5),
		date(2026, 2, 6), date(2026, 2, 10),
	))
}
