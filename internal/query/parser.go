// Package query compiles user-supplied filter triples into executable query
// descriptors. The store requires the first sort key to match any field
// under range comparison, so at most one distinct field may carry a
// non-equality operator per query; not-equal filters on the session type
// are diverted into an allow-list and compiled to an OR-of-equalities
// instead.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// fieldColumns maps logical field tags to physical column names.
var fieldColumns = map[string]string{
	"CITY":          "city",
	"TOPIC":         "topics",
	"MONTH":         "month",
	"MAX_ATTENDEES": "max_attendees",
	"TYPE":          "type_of_session",
	"SPEAKER":       "speaker",
	"START_TIME":    "start_time",
	"DURATION":      "duration",
	"DAY":           "day_of_conf",
}

// operatorSymbols maps operator tags to comparison symbols.
var operatorSymbols = map[string]string{
	"EQ":   "=",
	"GT":   ">",
	"GTEQ": ">=",
	"LT":   "<",
	"LTEQ": "<=",
	"NE":   "<>",
}

// numericColumns hold integer values; their filter values are coerced.
var numericColumns = map[string]bool{
	"month":         true,
	"max_attendees": true,
	"start_time":    true,
	"duration":      true,
	"day_of_conf":   true,
}

// FieldColumn resolves a logical field tag to its column name.
func FieldColumn(field string) (string, bool) {
	col, ok := fieldColumns[field]
	return col, ok
}

// OperatorSymbol resolves an operator tag to its comparison symbol.
func OperatorSymbol(op string) (string, bool) {
	sym, ok := operatorSymbols[op]
	return sym, ok
}

// Predicate is one normalized filter: a physical column, a comparison
// symbol, and a typed value.
type Predicate struct {
	Column string
	Op     string
	Value  any
}

// Parsed is the canonical form of a filter sequence.
type Parsed struct {
	// InequalityColumn is the single column under a non-equality operator,
	// empty when every predicate is an equality.
	InequalityColumn string
	Predicates       []Predicate
	// ExcludedTypes holds the upper-cased session type names diverted from
	// TYPE<>value filters; they do not appear in Predicates and never count
	// toward the inequality constraint.
	ExcludedTypes []string
}

// ParseConferenceFilters validates and normalizes filters for conference
// queries.
func ParseConferenceFilters(filters []domain.Filter) (*Parsed, error) {
	return parse(filters, false)
}

// ParseSessionFilters validates and normalizes filters for session queries,
// diverting session-type exclusions.
func ParseSessionFilters(filters []domain.Filter) (*Parsed, error) {
	return parse(filters, true)
}

func parse(filters []domain.Filter, divertTypeExclusions bool) (*Parsed, error) {
	p := &Parsed{}
	for _, f := range filters {
		column, ok := fieldColumns[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFilter, f.Field)
		}
		op, ok := operatorSymbols[f.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, f.Operator)
		}

		if op != "=" {
			if divertTypeExclusions && column == "type_of_session" {
				// A range comparison on a type makes no sense; only
				// exclusion is supported, compiled later into an
				// allow-list of the remaining types.
				if op != "<>" {
					return nil, fmt.Errorf("%w: only exclusion is supported for session type", domain.ErrInvalidFilter)
				}
				p.ExcludedTypes = append(p.ExcludedTypes, strings.ToUpper(f.Value))
				continue
			}
			if p.InequalityColumn != "" && p.InequalityColumn != column {
				return nil, fmt.Errorf("%w: inequality filter is allowed on only one field", domain.ErrInvalidFilter)
			}
			p.InequalityColumn = column
		}

		var value any = f.Value
		if numericColumns[column] {
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s requires an integer value, got %q", domain.ErrInvalidFilter, f.Field, f.Value)
			}
			value = n
		}
		p.Predicates = append(p.Predicates, Predicate{Column: column, Op: op, Value: value})
	}
	return p, nil
}
