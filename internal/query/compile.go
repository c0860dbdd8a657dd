package query

import (
	"fmt"
	"strings"
)

// Column maps a Field to trusted SQL. End is only used by range-overlap
// fields, where Expr is the start column.
type Column struct {
	Expr string
	End  string
}

// ColumnMap binds fields to a table's columns. Values are compile-time
// constants owned by repositories; user input never reaches them.
type ColumnMap map[Field]Column

// Col is shorthand for a single-column mapping.
func Col(expr string) Column { return Column{Expr: expr} }

// Span maps a range field onto its start and end columns.
func Span(start, end string) Column { return Column{Expr: start, End: end} }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)

// LikePattern wraps needle for a case-insensitive contains match with LIKE
// metacharacters escaped.
func LikePattern(needle string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(needle)) + "%"
}

// Compile renders the predicate as a conjunction using "?" placeholders.
// Callers run the clause through sqlx Rebind for their driver. Fields without
// a mapping are skipped. An empty predicate yields an empty clause.
func Compile(pred Predicate, columns ColumnMap) (string, []interface{}) {
	parts := make([]string, 0, len(pred))
	args := make([]interface{}, 0, len(pred))

	for _, cond := range pred {
		col, ok := columns[cond.Field]
		if !ok || col.Expr == "" {
			continue
		}

		switch cond.Operator {
		case OpEquals:
			parts = append(parts, fmt.Sprintf("%s = ?", col.Expr))
			args = append(args, cond.Value)
		case OpSubstring:
			needle, _ := cond.Value.(string)
			parts = append(parts, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col.Expr))
			args = append(args, LikePattern(needle))
		case OpDateRange:
			r, _ := cond.Value.(DateRange)
			if r.From != nil {
				parts = append(parts, fmt.Sprintf("%s >= ?", col.Expr))
				args = append(args, WallClock(*r.From))
			}
			if r.To != nil {
				parts = append(parts, fmt.Sprintf("%s < ?", col.Expr))
				args = append(args, WallClock(*r.To))
			}
		case OpRangeOverlaps:
			if col.End == "" {
				continue
			}
			r, _ := cond.Value.(DateRange)
			if r.To != nil {
				parts = append(parts, fmt.Sprintf("%s < ?", col.Expr))
				args = append(args, WallClock(*r.To))
			}
			if r.From != nil {
				parts = append(parts, fmt.Sprintf("%s >= ?", col.End))
				args = append(args, WallClock(*r.From))
			}
		}
	}

	return strings.Join(parts, " AND "), args
}

// Where prefixes a non-empty clause with WHERE.
func Where(clause string) string {
	if clause == "" {
		return ""
	}
	return " WHERE " + clause
}
