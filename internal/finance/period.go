package finance

import (
	"errors"
	"time"
)

// ErrUnknownPeriod is returned for periods without a computable start,
// including PeriodCustom whose start is chosen by the caller.
var ErrUnknownPeriod = errors.New("finance: unknown period")

// Period is the dashboard reporting window for accrued income.
type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// PeriodStart returns the start of the window containing now, in now's
// location. Weeks start on Monday.
func PeriodStart(p Period, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	loc := now.Location()

	switch p {
	case PeriodToday:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, ErrUnknownPeriod
}

// ReportPeriod is the span covered by the monthly income report.
type ReportPeriod string

const (
	ReportThisMonth    ReportPeriod = "this_month"
	ReportThisYear     ReportPeriod = "this_year"
	ReportLast12Months ReportPeriod = "last_12_months"
)

// Start returns the first day of the first month in the report span.
// Unknown values fall back to the last twelve months.
func (p ReportPeriod) Start(now time.Time) time.Time {
	y, m, _ := now.Date()
	loc := now.Location()

	switch p {
	case ReportThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case ReportThisYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m-11, 1, 0, 0, 0, 0, loc)
	}
}
