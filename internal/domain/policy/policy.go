package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/platform/config"
)

type OverdrawMode string

const (
	OverdrawWarn  OverdrawMode = "warn"
	OverdrawBlock OverdrawMode = "block"
)

// Bundle carries the tenant working-time rules as an explicit argument to
// balance and aggregation computations, never as ambient global state.
type Bundle struct {
	workingDays [7]bool

	// StandardDailyHours is the expected hours for one full working day.
	StandardDailyHours decimal.Decimal

	// HalfDayHourFactor is the share of a day's expected hours removed by a
	// half-day leave. Kept configurable: payroll conventions differ on
	// whether a half day is exactly half the scheduled hours.
	HalfDayHourFactor decimal.Decimal

	Overdraw OverdrawMode
}

func New(workingDays []time.Weekday, standardDailyHours, halfDayHourFactor decimal.Decimal, overdraw OverdrawMode) Bundle {
	b := Bundle{
		StandardDailyHours: standardDailyHours,
		HalfDayHourFactor:  halfDayHourFactor,
		Overdraw:           overdraw,
	}
	for _, day := range workingDays {
		b.workingDays[day] = true
	}
	return b
}

func FromConfig(cfg config.Config) Bundle {
	mode := OverdrawWarn
	if cfg.OverdrawPolicy == config.OverdrawBlock {
		mode = OverdrawBlock
	}
	return New(
		cfg.WorkingDays,
		decimal.NewFromFloat(cfg.StandardDailyHours),
		decimal.NewFromFloat(cfg.HalfDayHourFactor),
		mode,
	)
}

func Default() Bundle {
	return New(
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		decimal.NewFromInt(8),
		decimal.RequireFromString("0.5"),
		OverdrawWarn,
	)
}

func (b Bundle) IsWorkingDay(date time.Time) bool {
	return b.workingDays[date.Weekday()]
}

// WorkingDaysBetween counts scheduled working days in [start, end] inclusive.
func (b Bundle) WorkingDaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if b.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
