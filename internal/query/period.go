package query

import (
	"strings"
	"time"

	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

// Period is a symbolic date window understood by the dashboards.
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "this-week"
	PeriodThisMonth Period = "this-month"
	PeriodLastMonth Period = "last-month"
	PeriodCustom    Period = "custom"
)

// DateLayout is the wire format for date-only query parameters.
const DateLayout = "2006-01-02"

// DateRange is a half-open [From, To) window. A nil bound is unconstrained.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the window.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// ContainsDay reports whether t's calendar date falls inside the window,
// reading the date in t's location and comparing in the window's location.
func (r DateRange) ContainsDay(t time.Time) bool {
	return r.Contains(r.anchor(t))
}

// OverlapsDays is Overlaps on calendar dates.
func (r DateRange) OverlapsDays(start, end time.Time) bool {
	return r.Overlaps(r.anchor(start), r.anchor(end))
}

func (r DateRange) anchor(t time.Time) time.Time {
	loc := t.Location()
	switch {
	case r.From != nil:
		loc = r.From.Location()
	case r.To != nil:
		loc = r.To.Location()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Overlaps reports whether the inclusive span [start, end] intersects the window.
func (r DateRange) Overlaps(start, end time.Time) bool {
	if r.To != nil && !start.Before(*r.To) {
		return false
	}
	if r.From != nil && end.Before(*r.From) {
		return false
	}
	return true
}

// ParsePeriod normalises a raw keyword. Empty input means PeriodAll.
func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodThisWeek, PeriodThisMonth, PeriodLastMonth, PeriodCustom:
		return p, nil
	default:
		return "", appErrors.Clone(appErrors.ErrInvalidPeriod, "unsupported period "+raw)
	}
}

// ResolvePeriod maps a period keyword to a concrete window anchored at now.
// A nil result means no date constraint. Calendar arithmetic uses now's location.
func ResolvePeriod(p Period, from, to *time.Time, now time.Time, weekStart time.Weekday) (*DateRange, error) {
	today := Midnight(now)

	switch p {
	case PeriodAll, "":
		return nil, nil
	case PeriodToday:
		return bounded(today, today.AddDate(0, 0, 1)), nil
	case PeriodThisWeek:
		start := WeekStart(now, weekStart)
		return bounded(start, start.AddDate(0, 0, 7)), nil
	case PeriodThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return bounded(first, first.AddDate(0, 1, 0)), nil
	case PeriodLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return bounded(first.AddDate(0, -1, 0), first), nil
	case PeriodCustom:
		return customRange(from, to)
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidPeriod, "unsupported period "+string(p))
	}
}

// ActiveOn returns the single-day window used for "active on" schedule checks.
func ActiveOn(day time.Time) DateRange {
	start := Midnight(day)
	end := start.AddDate(0, 0, 1)
	return DateRange{From: &start, To: &end}
}

// Week returns the seven-day window starting at the given day.
func Week(start time.Time) DateRange {
	from := Midnight(start)
	to := from.AddDate(0, 0, 7)
	return DateRange{From: &from, To: &to}
}

// WeekStart returns midnight of the most recent weekStart on or before now.
func WeekStart(now time.Time, weekStart time.Weekday) time.Time {
	offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
	return Midnight(now).AddDate(0, 0, -offset)
}

// Midnight strips the time of day in t's own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WallClock relabels t's local date and time as UTC. Range bounds are bound
// this way so zoneless DATE and DATETIME columns compare against the
// dashboard's calendar day rather than an offset instant.
func WallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Bounds returns the range ends as wall-clock values for SQL parameters.
// A missing end is the zero time.
func (r DateRange) Bounds() (from, to time.Time) {
	if r.From != nil {
		from = WallClock(*r.From)
	}
	if r.To != nil {
		to = WallClock(*r.To)
	}
	return from, to
}

func bounded(from, to time.Time) *DateRange {
	return &DateRange{From: &from, To: &to}
}

// customRange treats the explicit to-date as an inclusive calendar day.
func customRange(from, to *time.Time) (*DateRange, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	r := &DateRange{}
	if from != nil {
		start := Midnight(*from)
		r.From = &start
	}
	if to != nil {
		end := Midnight(*to).AddDate(0, 0, 1)
		r.To = &end
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fromDate must not be after toDate")
	}
	return r, nil
}
