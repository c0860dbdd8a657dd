package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriodToday(t *testing.T) {
	now := time.Date(2026, time.February, 17, 15, 0, 0, 0, time.UTC)
	r, err := ResolvePeriod(PeriodToday, nil, nil, now, time.Monday)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, day(2026, time.February, 17), *r.From)
	assert.Equal(t, day(2026, time.February, 18), *r.To)
}

func TestResolvePeriodThisWeek(t *testing.T) {
	wednesday := time.Date(2026, time.February, 18, 9, 30, 0, 0, time.UTC)
	r, err := ResolvePeriod(PeriodThisWeek, nil, nil, wednesday, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.February, 16), *r.From)
	assert.Equal(t, day(2026, time.February, 23), *r.To)

	monday := time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)
	r, err = ResolvePeriod(PeriodThisWeek, nil, nil, monday, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, monday, *r.From)

	r, err = ResolvePeriod(PeriodThisWeek, nil, nil, wednesday, time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.February, 15), *r.From)
}

func TestResolvePeriodMonths(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	r, err := ResolvePeriod(PeriodThisMonth, nil, nil, now, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.January, 1), *r.From)
	assert.Equal(t, day(2026, time.February, 1), *r.To)

	r, err = ResolvePeriod(PeriodLastMonth, nil, nil, now, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.December, 1), *r.From)
	assert.Equal(t, day(2026, time.January, 1), *r.To)
}

func TestResolvePeriodAllIsUnconstrained(t *testing.T) {
	r, err := ResolvePeriod(PeriodAll, nil, nil, time.Now(), time.Monday)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestResolvePeriodCustom(t *testing.T) {
	from := day(2026, time.February, 1)
	to := day(2026, time.February, 10)
	now := time.Now()

	r, err := ResolvePeriod(PeriodCustom, &from, nil, now, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, from, *r.From)
	assert.Nil(t, r.To)

	r, err = ResolvePeriod(PeriodCustom, nil, &to, now, time.Monday)
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Equal(t, day(2026, time.February, 11), *r.To)

	r, err = ResolvePeriod(PeriodCustom, &from, &to, now, time.Monday)
	require.NoError(t, err)
	assert.True(t, r.Contains(to.Add(23*time.Hour)))
	assert.False(t, r.Contains(day(2026, time.February, 11)))

	r, err = ResolvePeriod(PeriodCustom, nil, nil, now, time.Monday)
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = ResolvePeriod(PeriodCustom, &to, &from, now, time.Monday)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestResolvePeriodUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, time.February, 17, 1, 0, 0, 0, loc)
	r, err := ResolvePeriod(PeriodToday, nil, nil, now, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.February, 17, 0, 0, 0, 0, loc), *r.From)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	p, err = ParsePeriod(" This-Month ")
	require.NoError(t, err)
	assert.Equal(t, PeriodThisMonth, p)

	_, err = ParsePeriod("yesterday")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidPeriod))
}

func TestDateRangeOverlaps(t *testing.T) {
	week := Week(day(2026, time.February, 16))
	assert.True(t, week.Overlaps(day(2026, time.February, 10), day(2026, time.February, 16)))
	assert.True(t, week.Overlaps(day(2026, time.February, 22), day(2026, time.March, 1)))
	assert.False(t, week.Overlaps(day(2026, time.February, 23), day(2026, time.March, 1)))
	assert.False(t, week.Overlaps(day(2026, time.February, 1), day(2026, time.February, 15)))

	active := ActiveOn(time.Date(2026, time.February, 18, 14, 0, 0, 0, time.UTC))
	assert.True(t, active.Overlaps(day(2026, time.February, 18), day(2026, time.February, 18)))
}

func TestDateRangeContainsDayIgnoresStorageZone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, time.February, 17, 12, 0, 0, 0, loc)
	r, err := ResolvePeriod(PeriodToday, nil, nil, now, time.Monday)
	require.NoError(t, err)

	stored := day(2026, time.February, 17)
	assert.False(t, r.Contains(stored))
	assert.True(t, r.ContainsDay(stored))
	assert.False(t, r.ContainsDay(day(2026, time.February, 18)))
}
