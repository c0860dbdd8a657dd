package service

import (
	"sort"
	"time"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

const dayKeyLayout = "2006-01-02"

// attendanceSubject exposes an attendance record to predicate matching.
type attendanceSubject struct {
	record *models.AttendanceRecord
}

func (s attendanceSubject) Text(field query.Field) (string, bool) {
	switch field {
	case query.FieldStore:
		return s.record.StoreName, true
	case query.FieldCompany:
		return s.record.Company, true
	case query.FieldWorkerType:
		return s.record.WorkerType, true
	case query.FieldName:
		return s.record.FullName(), true
	default:
		return "", false
	}
}

func (s attendanceSubject) Time(field query.Field) (time.Time, bool) {
	if field != query.FieldDate {
		return time.Time{}, false
	}
	return s.record.AttendanceDate, true
}

func (s attendanceSubject) Span(query.Field) (time.Time, time.Time, bool) {
	return time.Time{}, time.Time{}, false
}

// pivotDimensions names the secondary and tertiary distinct counts per key.
var pivotDimensions = map[models.AttendanceGroupBy][2]string{
	models.GroupByStore:      {"employees", "days"},
	models.GroupByCompany:    {"employees", "stores"},
	models.GroupByWorkerType: {"employees", "stores"},
	models.GroupByDate:       {"employees", "stores"},
	models.GroupByName:       {"stores", "days"},
}

type dimensionSets struct {
	stores    map[string]struct{}
	companies map[string]struct{}
	employees map[string]struct{}
	days      map[string]struct{}
}

func newDimensionSets() dimensionSets {
	return dimensionSets{
		stores:    map[string]struct{}{},
		companies: map[string]struct{}{},
		employees: map[string]struct{}{},
		days:      map[string]struct{}{},
	}
}

func (d dimensionSets) add(r *models.AttendanceRecord) {
	d.stores[r.StoreName] = struct{}{}
	d.companies[r.Company] = struct{}{}
	d.employees[r.FullName()] = struct{}{}
	d.days[r.AttendanceDate.Format(dayKeyLayout)] = struct{}{}
}

func (d dimensionSets) count(dimension string) int {
	switch dimension {
	case "stores":
		return len(d.stores)
	case "employees":
		return len(d.employees)
	case "days":
		return len(d.days)
	default:
		return 0
	}
}

type groupAccumulator struct {
	count int
	sets  dimensionSets
	hours query.HoursTotal
}

// MatchAttendance keeps the records the predicate accepts, in order.
func MatchAttendance(records []models.AttendanceRecord, pred query.Predicate) []models.AttendanceRecord {
	matched := make([]models.AttendanceRecord, 0, len(records))
	for i := range records {
		if pred.Match(attendanceSubject{record: &records[i]}) {
			matched = append(matched, records[i])
		}
	}
	return matched
}

// AggregateAttendance computes overall statistics and, for a supported
// groupBy, per-group rollups over the records the predicate accepts. It has
// no side effects and does not reorder records.
func AggregateAttendance(records []models.AttendanceRecord, pred query.Predicate, groupBy models.AttendanceGroupBy) models.AttendanceAggregation {
	overall := newDimensionSets()
	var overallHours query.HoursTotal
	total := 0

	grouping := groupBy.Valid()
	groups := map[string]*groupAccumulator{}

	for i := range records {
		record := &records[i]
		if !pred.Match(attendanceSubject{record: record}) {
			continue
		}
		total++
		overall.add(record)
		overallHours.AddPtr(record.TotalDuration)

		if !grouping {
			continue
		}
		key := groupKey(record, groupBy)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAccumulator{sets: newDimensionSets()}
			groups[key] = acc
		}
		acc.count++
		acc.sets.add(record)
		acc.hours.AddPtr(record.TotalDuration)
	}

	result := models.AttendanceAggregation{
		Summary: models.AttendanceSummary{
			Records:         total,
			UniqueStores:    len(overall.stores),
			UniqueCompanies: len(overall.companies),
			UniqueEmployees: len(overall.employees),
			UniqueDays:      len(overall.days),
			TotalHours:      overallHours.Value(),
		},
		Groups: []models.AttendanceGroup{},
	}
	if !grouping {
		return result
	}

	dims := pivotDimensions[groupBy]
	result.GroupBy = groupBy
	result.SecondaryLabel = dims[0]
	result.TertiaryLabel = dims[1]
	for key, acc := range groups {
		result.Groups = append(result.Groups, models.AttendanceGroup{
			Key:            key,
			RecordCount:    acc.count,
			SecondaryCount: acc.sets.count(dims[0]),
			TertiaryCount:  acc.sets.count(dims[1]),
			TotalHours:     acc.hours.Value(),
		})
	}
	sortGroups(result.Groups, groupBy)
	return result
}

func groupKey(r *models.AttendanceRecord, groupBy models.AttendanceGroupBy) string {
	switch groupBy {
	case models.GroupByStore:
		return r.StoreName
	case models.GroupByCompany:
		return r.Company
	case models.GroupByWorkerType:
		return r.WorkerType
	case models.GroupByDate:
		return r.AttendanceDate.Format(dayKeyLayout)
	case models.GroupByName:
		return r.FullName()
	default:
		return ""
	}
}

// sortGroups orders date groups newest first, name groups by hours descending
// and everything else by key ascending. Ties always fall back to the key.
func sortGroups(groups []models.AttendanceGroup, groupBy models.AttendanceGroupBy) {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch groupBy {
		case models.GroupByDate:
			return a.Key > b.Key
		case models.GroupByName:
			if a.TotalHours != b.TotalHours {
				return a.TotalHours > b.TotalHours
			}
			return a.Key < b.Key
		default:
			return a.Key < b.Key
		}
	})
}
