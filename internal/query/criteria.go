package query

import (
	"net/url"
	"strings"
	"time"

	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

// Clock anchors relative periods.
type Clock struct {
	Now       time.Time
	WeekStart time.Weekday
}

// Location returns the clock's timezone.
func (c Clock) Location() *time.Location {
	if c.Now.IsZero() {
		return time.Local
	}
	return c.Now.Location()
}

// ParseCriteria reads the dashboard filter keys from a query string.
// Unknown keys are ignored. When fromDate/toDate are given without a period
// the range is treated as custom.
func ParseCriteria(values url.Values, clock Clock) (Criteria, error) {
	c := Criteria{
		Store:      values.Get("store"),
		Company:    values.Get("company"),
		WorkerType: values.Get("workerType"),
		Status:     values.Get("status"),
		Category:   values.Get("category"),
		Name:       values.Get("name"),
	}

	loc := clock.Location()
	from, err := parseDate(values.Get("fromDate"), "fromDate", loc)
	if err != nil {
		return Criteria{}, err
	}
	to, err := parseDate(values.Get("toDate"), "toDate", loc)
	if err != nil {
		return Criteria{}, err
	}

	period, err := ParsePeriod(values.Get("period"))
	if err != nil {
		return Criteria{}, err
	}
	if strings.TrimSpace(values.Get("period")) == "" && (from != nil || to != nil) {
		period = PeriodCustom
	}

	dates, err := ResolvePeriod(period, from, to, clock.Now, clock.WeekStart)
	if err != nil {
		return Criteria{}, err
	}
	c.Dates = dates

	week, err := parseDate(values.Get("week"), "week", loc)
	if err != nil {
		return Criteria{}, err
	}
	if week != nil {
		r := Week(*week)
		c.ActiveOn = &r
	}
	day, err := parseDate(values.Get("activeOn"), "activeOn", loc)
	if err != nil {
		return Criteria{}, err
	}
	if day != nil {
		r := ActiveOn(*day)
		c.ActiveOn = &r
	}

	return c, nil
}

func parseDate(raw, key string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, key+" must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}
