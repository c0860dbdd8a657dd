package query

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subjectStub struct {
	text  map[Field]string
	date  time.Time
	start time.Time
	end   time.Time
}

func (s subjectStub) Text(f Field) (string, bool) {
	v, ok := s.text[f]
	return v, ok
}

func (s subjectStub) Time(f Field) (time.Time, bool) {
	return s.date, f == FieldDate && !s.date.IsZero()
}

func (s subjectStub) Span(f Field) (time.Time, time.Time, bool) {
	return s.start, s.end, f == FieldActive && !s.start.IsZero()
}

func TestBuildEmitsOneConditionPerCriterion(t *testing.T) {
	from := day(2026, time.February, 1)
	week := Week(day(2026, time.February, 16))

	cases := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{name: "empty", criteria: Criteria{}, want: 0},
		{name: "whitespace only", criteria: Criteria{Store: "  ", Name: "\t"}, want: 0},
		{name: "single", criteria: Criteria{Store: "Main"}, want: 1},
		{name: "exact fields", criteria: Criteria{Store: "Main", Company: "Acme", WorkerType: "Temp", Status: "Pending", Category: "Food"}, want: 5},
		{name: "dates count once", criteria: Criteria{Name: "ann", Dates: &DateRange{From: &from}}, want: 2},
		{name: "empty range ignored", criteria: Criteria{Dates: &DateRange{}}, want: 0},
		{name: "overlap", criteria: Criteria{Status: "Submitted", ActiveOn: &week}, want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred := Build(tc.criteria)
			assert.Len(t, pred, tc.want)
		})
	}
}

func TestBuildOperators(t *testing.T) {
	from := day(2026, time.February, 1)
	pred := Build(Criteria{Store: " Main ", Name: "Ann", Dates: &DateRange{From: &from}})
	require.Len(t, pred, 3)
	assert.Equal(t, Condition{Field: FieldStore, Operator: OpEquals, Value: "Main"}, pred[0])
	assert.Equal(t, OpSubstring, pred[1].Operator)
	assert.Equal(t, OpDateRange, pred[2].Operator)
	assert.True(t, pred.Has(FieldDate))
	assert.False(t, pred.Without(FieldDate).Has(FieldDate))
	assert.Len(t, pred, 3)
}

func TestCompileUsesPlaceholdersOnly(t *testing.T) {
	from := day(2026, time.February, 1)
	to := day(2026, time.March, 1)
	hostile := "x' OR 1=1 --"
	pred := Build(Criteria{
		Store: hostile,
		Name:  "50%_off",
		Dates: &DateRange{From: &from, To: &to},
	})

	clause, args := Compile(pred, ColumnMap{
		FieldStore: Col("a.StoreName"),
		FieldName:  Col("CONCAT(a.FirstName, ' ', a.LastName)"),
		FieldDate:  Col("a.AttendanceDate"),
	})

	assert.Equal(t, `a.StoreName = ? AND LOWER(CONCAT(a.FirstName, ' ', a.LastName)) LIKE ? ESCAPE '\' AND a.AttendanceDate >= ? AND a.AttendanceDate < ?`, clause)
	assert.NotContains(t, clause, hostile)
	assert.Equal(t, []interface{}{hostile, `%50\%\_off%`, from, to}, args)
	assert.Equal(t, strings.Count(clause, "?"), len(args))
}

func TestCompileRangeOverlapsAndUnmappedFields(t *testing.T) {
	week := Week(day(2026, time.February, 16))
	pred := Build(Criteria{Company: "ignored", ActiveOn: &week})

	clause, args := Compile(pred, ColumnMap{FieldActive: Span("s.FromDate", "s.ToDate")})
	assert.Equal(t, "s.FromDate < ? AND s.ToDate >= ?", clause)
	assert.Equal(t, []interface{}{*week.To, *week.From}, args)

	clause, args = Compile(Predicate{}, ColumnMap{})
	assert.Empty(t, clause)
	assert.Empty(t, args)
	assert.Empty(t, Where(clause))
	assert.Equal(t, " WHERE x = ?", Where("x = ?"))
}

func TestLikePatternEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `%ann%`, LikePattern("ANN"))
	assert.Equal(t, `%a\\b\[c]%`, LikePattern(`a\b[c]`))
}

func TestPredicateMatch(t *testing.T) {
	from := day(2026, time.February, 1)
	to := day(2026, time.February, 8)
	pred := Build(Criteria{Store: "main", Name: "ANN", Dates: &DateRange{From: &from, To: &to}})

	hit := subjectStub{
		text: map[Field]string{FieldStore: "Main", FieldName: "Joanne Smith"},
		date: day(2026, time.February, 7),
	}
	assert.True(t, pred.Match(hit))

	outside := hit
	outside.date = to
	assert.False(t, pred.Match(outside))

	otherStore := subjectStub{text: map[Field]string{FieldStore: "Annex", FieldName: "Ann"}, date: from}
	assert.False(t, pred.Match(otherStore))

	week := Week(day(2026, time.February, 16))
	schedule := subjectStub{start: day(2026, time.February, 20), end: day(2026, time.March, 5)}
	assert.True(t, Build(Criteria{ActiveOn: &week}).Match(schedule))
	schedule.start = day(2026, time.February, 23)
	assert.False(t, Build(Criteria{ActiveOn: &week}).Match(schedule))
}

func TestParseCriteria(t *testing.T) {
	clock := Clock{Now: time.Date(2026, time.February, 17, 15, 0, 0, 0, time.UTC), WeekStart: time.Monday}

	c, err := ParseCriteria(url.Values{
		"store":    {"Main"},
		"fromDate": {"2026-02-01"},
		"unknown":  {"ignored"},
	}, clock)
	require.NoError(t, err)
	assert.Equal(t, "Main", c.Store)
	require.NotNil(t, c.Dates)
	assert.Equal(t, day(2026, time.February, 1), *c.Dates.From)
	assert.Nil(t, c.Dates.To)
	assert.Len(t, Build(c), 2)

	c, err = ParseCriteria(url.Values{"period": {"today"}, "week": {"2026-02-16"}}, clock)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.February, 17), *c.Dates.From)
	require.NotNil(t, c.ActiveOn)
	assert.Equal(t, day(2026, time.February, 23), *c.ActiveOn.To)

	_, err = ParseCriteria(url.Values{"fromDate": {"17/02/2026"}}, clock)
	assert.Error(t, err)

	_, err = ParseCriteria(url.Values{"period": {"fortnight"}}, clock)
	assert.Error(t, err)
}

func TestCompileBindsCalendarDaysForZonedClock(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, time.February, 17, 22, 30, 0, 0, est)
	today, err := ResolvePeriod(PeriodToday, nil, nil, now, time.Monday)
	require.NoError(t, err)

	_, args := Compile(Build(Criteria{Dates: today}), ColumnMap{FieldDate: Col("AttendanceDate")})
	assert.Equal(t, []interface{}{day(2026, time.February, 17), day(2026, time.February, 18)}, args)

	week := Week(time.Date(2026, time.February, 16, 0, 0, 0, 0, est))
	_, args = Compile(Build(Criteria{ActiveOn: &week}), ColumnMap{FieldActive: Span("FromDate", "ToDate")})
	assert.Equal(t, []interface{}{day(2026, time.February, 23), day(2026, time.February, 16)}, args)

	from, to := today.Bounds()
	assert.Equal(t, day(2026, time.February, 17), from)
	assert.Equal(t, day(2026, time.February, 18), to)
}
