package leave

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/policy"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.RequireFromString("0.5")
)

// DayFraction maps a day type to its contribution to total days.
func DayFraction(dayType string) (decimal.Decimal, error) {
	switch dayType {
	case DayFull:
		return fullDay, nil
	case DayFirstHalf, DaySecondHalf:
		return halfDay, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown day type %q", dayType)
	}
}

// TotalDays sums the day fractions of a submission. This value is computed
// once at submission time and stored; the stored value must always equal the
// sum over the request's day rows.
func TotalDays(days []DaySpec) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, day := range days {
		fraction, err := DayFraction(day.DayType)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(fraction)
	}
	return total, nil
}

// NormalizeDate strips the time-of-day component; leave days are calendar dates.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateDaySpecs enforces the submission constraints: non-empty set,
// unique dates, known day types, and every date on a scheduled working day.
func ValidateDaySpecs(days []DaySpec, bundle policy.Bundle) error {
	if len(days) == 0 {
		return validationError("days", "at least one day is required")
	}

	issues := &ValidationError{}
	seen := make(map[string]bool, len(days))
	for i, day := range days {
		field := fmt.Sprintf("days[%d]", i)
		if _, err := DayFraction(day.DayType); err != nil {
			issues.Issues = append(issues.Issues, FieldIssue{Field: field + ".dayType", Reason: "must be full, first_half or second_half"})
			continue
		}
		date := NormalizeDate(day.Date)
		if date.IsZero() {
			issues.Issues = append(issues.Issues, FieldIssue{Field: field + ".date", Reason: "must be a valid date"})
			continue
		}
		key := date.Format("2006-01-02")
		if seen[key] {
			issues.Issues = append(issues.Issues, FieldIssue{Field: field + ".date", Reason: "duplicate date " + key})
			continue
		}
		seen[key] = true
		if !bundle.IsWorkingDay(date) {
			issues.Issues = append(issues.Issues, FieldIssue{Field: field + ".date", Reason: key + " is not a working day"})
		}
	}
	if len(issues.Issues) > 0 {
		return issues
	}
	return nil
}

// DateBounds returns the min and max dates of a submission. The parent row
// stores these for range queries even when the days are non-contiguous.
func DateBounds(days []DaySpec) (start, end time.Time) {
	for _, day := range days {
		date := NormalizeDate(day.Date)
		if start.IsZero() || date.Before(start) {
			start = date
		}
		if end.IsZero() || date.After(end) {
			end = date
		}
	}
	return start, end
}

// RangesOverlap is inclusive on both ends: a single shared day overlaps.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
