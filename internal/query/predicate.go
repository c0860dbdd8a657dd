package query

import (
	"strings"
	"time"
)

// Field names a filterable dimension independent of any table layout.
type Field string

const (
	FieldStore      Field = "store"
	FieldCompany    Field = "company"
	FieldWorkerType Field = "workerType"
	FieldStatus     Field = "status"
	FieldCategory   Field = "category"
	FieldName       Field = "name"
	FieldDate       Field = "date"
	FieldActive     Field = "active"
)

// Operator describes how a condition compares its field.
type Operator string

const (
	OpEquals        Operator = "equals"
	OpSubstring     Operator = "substring"
	OpDateRange     Operator = "dateRange"
	OpRangeOverlaps Operator = "rangeOverlaps"
)

// Condition is one (field, operator, value) triple. Value is a string for
// equals/substring and a DateRange for the date operators.
type Condition struct {
	Field    Field       `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Predicate is a conjunction of conditions.
type Predicate []Condition

// Criteria is the request-scoped filter bag.
type Criteria struct {
	Store      string
	Company    string
	WorkerType string
	Status     string
	Category   string
	Name       string
	Dates      *DateRange
	ActiveOn   *DateRange
}

// Build emits exactly one condition per non-empty criterion.
func Build(c Criteria) Predicate {
	pred := Predicate{}
	pred = appendEquals(pred, FieldStore, c.Store)
	pred = appendEquals(pred, FieldCompany, c.Company)
	pred = appendEquals(pred, FieldWorkerType, c.WorkerType)
	pred = appendEquals(pred, FieldStatus, c.Status)
	pred = appendEquals(pred, FieldCategory, c.Category)
	if name := strings.TrimSpace(c.Name); name != "" {
		pred = append(pred, Condition{Field: FieldName, Operator: OpSubstring, Value: name})
	}
	if c.Dates != nil && !c.Dates.IsZero() {
		pred = append(pred, Condition{Field: FieldDate, Operator: OpDateRange, Value: *c.Dates})
	}
	if c.ActiveOn != nil && !c.ActiveOn.IsZero() {
		pred = append(pred, Condition{Field: FieldActive, Operator: OpRangeOverlaps, Value: *c.ActiveOn})
	}
	return pred
}

func appendEquals(pred Predicate, field Field, value string) Predicate {
	value = strings.TrimSpace(value)
	if value == "" {
		return pred
	}
	return append(pred, Condition{Field: field, Operator: OpEquals, Value: value})
}

// Has reports whether the predicate constrains the field.
func (p Predicate) Has(field Field) bool {
	for _, cond := range p {
		if cond.Field == field {
			return true
		}
	}
	return false
}

// Without returns a copy of the predicate minus conditions on the given fields.
func (p Predicate) Without(fields ...Field) Predicate {
	out := make(Predicate, 0, len(p))
	for _, cond := range p {
		skip := false
		for _, f := range fields {
			if cond.Field == f {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, cond)
		}
	}
	return out
}

// Subject exposes a record's fields to in-memory predicate evaluation.
type Subject interface {
	Text(field Field) (string, bool)
	Time(field Field) (time.Time, bool)
	Span(field Field) (start, end time.Time, ok bool)
}

// Match evaluates the predicate in memory with the same semantics the
// compiled SQL has on a case-insensitive collation. Date operators compare
// calendar dates. Fields the subject does not expose are ignored, mirroring
// unmapped columns in Compile.
func (p Predicate) Match(s Subject) bool {
	for _, cond := range p {
		switch cond.Operator {
		case OpEquals:
			want, _ := cond.Value.(string)
			got, ok := s.Text(cond.Field)
			if ok && !strings.EqualFold(strings.TrimSpace(got), want) {
				return false
			}
		case OpSubstring:
			needle, _ := cond.Value.(string)
			got, ok := s.Text(cond.Field)
			if ok && !strings.Contains(strings.ToLower(got), strings.ToLower(needle)) {
				return false
			}
		case OpDateRange:
			r, _ := cond.Value.(DateRange)
			got, ok := s.Time(cond.Field)
			if ok && !r.ContainsDay(got) {
				return false
			}
		case OpRangeOverlaps:
			r, _ := cond.Value.(DateRange)
			start, end, ok := s.Span(cond.Field)
			if ok && !r.OverlapsDays(start, end) {
				return false
			}
		}
	}
	return true
}
