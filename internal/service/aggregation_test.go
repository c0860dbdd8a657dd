package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

func strPtr(v string) *string { return &v }

func attendanceRecord(store, first, company, workerType string, date time.Time, duration string) models.AttendanceRecord {
	return models.AttendanceRecord{
		StoreName:      store,
		FirstName:      first,
		LastName:       "Doe",
		Company:        company,
		WorkerType:     workerType,
		AttendanceDate: date,
		TotalDuration:  strPtr(duration),
	}
}

func storeScenario() []models.AttendanceRecord {
	d1 := time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	return []models.AttendanceRecord{
		attendanceRecord("Main", "Ann", "Acme", "Temp", d1, "8:00"),
		attendanceRecord("Main", "Bob", "Acme", "Perm", d1, "4:30"),
		attendanceRecord("Main", "Ann", "Globex", "Temp", d2, "6,0"),
		attendanceRecord("Annex", "Cid", "Globex", "Temp", d2, "9:15"),
	}
}

func TestAggregateAttendanceStoreScenario(t *testing.T) {
	result := AggregateAttendance(storeScenario(), query.Predicate{}, models.GroupByStore)

	assert.Equal(t, 4, result.Summary.Records)
	assert.Equal(t, 2, result.Summary.UniqueStores)
	assert.Equal(t, 2, result.Summary.UniqueCompanies)
	assert.Equal(t, 3, result.Summary.UniqueEmployees)
	assert.Equal(t, 2, result.Summary.UniqueDays)
	assert.InDelta(t, 27.75, result.Summary.TotalHours, 1e-9)

	require.Len(t, result.Groups, 2)
	assert.Equal(t, models.AttendanceGroup{Key: "Annex", RecordCount: 1, SecondaryCount: 1, TertiaryCount: 1, TotalHours: 9.25}, result.Groups[0])
	assert.Equal(t, models.AttendanceGroup{Key: "Main", RecordCount: 3, SecondaryCount: 2, TertiaryCount: 2, TotalHours: 18.5}, result.Groups[1])
	assert.Equal(t, "employees", result.SecondaryLabel)
	assert.Equal(t, "days", result.TertiaryLabel)
}

func TestAggregateAttendanceGroupCountsSumToTotal(t *testing.T) {
	records := storeScenario()
	for _, groupBy := range []models.AttendanceGroupBy{models.GroupByStore, models.GroupByCompany, models.GroupByWorkerType, models.GroupByDate, models.GroupByName} {
		result := AggregateAttendance(records, query.Predicate{}, groupBy)
		sum := 0
		for _, g := range result.Groups {
			sum += g.RecordCount
		}
		assert.Equal(t, result.Summary.Records, sum, "groupBy %s", groupBy)
	}
}

func TestAggregateAttendanceSortOrders(t *testing.T) {
	records := storeScenario()

	byDate := AggregateAttendance(records, query.Predicate{}, models.GroupByDate)
	require.Len(t, byDate.Groups, 2)
	assert.Equal(t, "2026-02-17", byDate.Groups[0].Key)
	assert.Equal(t, 2, byDate.Groups[0].TertiaryCount)

	byName := AggregateAttendance(records, query.Predicate{}, models.GroupByName)
	require.Len(t, byName.Groups, 3)
	assert.Equal(t, "Ann Doe", byName.Groups[0].Key)
	assert.Equal(t, 14.0, byName.Groups[0].TotalHours)
	for i := 1; i < len(byName.Groups); i++ {
		assert.GreaterOrEqual(t, byName.Groups[i-1].TotalHours, byName.Groups[i].TotalHours)
	}
	assert.Equal(t, "stores", byName.SecondaryLabel)

	byCompany := AggregateAttendance(records, query.Predicate{}, models.GroupByCompany)
	assert.Equal(t, []string{"Acme", "Globex"}, []string{byCompany.Groups[0].Key, byCompany.Groups[1].Key})
	assert.Equal(t, 2, byCompany.Groups[1].TertiaryCount)
}

func TestAggregateAttendanceNameTiesBreakByKey(t *testing.T) {
	d := time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		attendanceRecord("Main", "Zed", "Acme", "Temp", d, "8"),
		attendanceRecord("Main", "Amy", "Acme", "Temp", d, "8:00"),
	}
	result := AggregateAttendance(records, query.Predicate{}, models.GroupByName)
	assert.Equal(t, "Amy Doe", result.Groups[0].Key)
	assert.Equal(t, "Zed Doe", result.Groups[1].Key)
}

func TestAggregateAttendanceAppliesPredicateAndIgnoresBadDurations(t *testing.T) {
	records := storeScenario()
	records = append(records, attendanceRecord("Main", "Dee", "Acme", "Temp", records[0].AttendanceDate, "n/a"))
	records[1].TotalDuration = nil

	pred := query.Build(query.Criteria{Store: "main", Company: "acme"})
	result := AggregateAttendance(records, pred, models.GroupByNone)

	assert.Equal(t, 3, result.Summary.Records)
	assert.Equal(t, 8.0, result.Summary.TotalHours)
	assert.Empty(t, result.Groups)
	assert.Empty(t, result.GroupBy)
}

func TestAggregateAttendanceIsIdempotent(t *testing.T) {
	records := storeScenario()
	from := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	pred := query.Build(query.Criteria{Dates: &query.DateRange{From: &from}})

	first := AggregateAttendance(records, pred, models.GroupByName)
	second := AggregateAttendance(records, pred, models.GroupByName)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Summary.Records)
	assert.Equal(t, storeScenario(), records)
}

func TestAggregateAttendanceUnknownGroupBy(t *testing.T) {
	result := AggregateAttendance(storeScenario(), nil, models.AttendanceGroupBy("status"))
	assert.Equal(t, 4, result.Summary.Records)
	assert.Empty(t, result.Groups)
}
