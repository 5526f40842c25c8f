// Package filter evaluates a parsed query.FilterExpression against a
// generic record — a (id string, fields map[string]any) pair — with no
// dependency on storage. It is the pure predicate engine consulted by
// SELECT's WHERE clause and by ORDER BY's partial order (§4.D).
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/issuecraft/issuecraft/internal/query"
)

// Matches evaluates expr against record, addressed by id. It never
// errors: undefined or type-incompatible comparisons yield false so that
// filters degrade gracefully (§4.D, P7).
func Matches(expr *query.FilterExpression, id string, record map[string]any) bool {
	if expr == nil {
		return true
	}
	switch expr.Kind {
	case query.FilterComparison:
		return matchesComparison(expr, id, record)
	case query.FilterAnd:
		return Matches(expr.Left, id, record) && Matches(expr.Right, id, record)
	case query.FilterOr:
		return Matches(expr.Left, id, record) || Matches(expr.Right, id, record)
	case query.FilterNot:
		return !Matches(expr.Operand, id, record)
	case query.FilterIn:
		return matchesIn(expr, id, record)
	case query.FilterIsNull:
		return isNull(expr.Field, id, record)
	case query.FilterIsNotNull:
		return !isNull(expr.Field, id, record)
	default:
		return false
	}
}

func fieldValue(field, id string, record map[string]any) (any, bool) {
	if field == "id" {
		return id, true
	}
	v, ok := record[field]
	return v, ok
}

func isNull(field, id string, record map[string]any) bool {
	if field == "id" {
		return false
	}
	v, ok := record[field]
	return !ok || v == nil
}

func matchesComparison(expr *query.FilterExpression, id string, record map[string]any) bool {
	fieldVal, ok := fieldValue(expr.Field, id, record)
	if !ok {
		// Missing field: only `!=` against a convertible literal is true.
		return expr.Op == query.OpNeq
	}
	if expr.Op == query.OpLike {
		return matchesLike(fieldVal, expr.Literal)
	}
	return compareValues(fieldVal, expr.Op, expr.Literal)
}

func matchesIn(expr *query.FilterExpression, id string, record map[string]any) bool {
	fieldVal, ok := fieldValue(expr.Field, id, record)
	if !ok {
		return false
	}
	for _, v := range expr.Values {
		if compareValues(fieldVal, query.OpEq, v) {
			return true
		}
	}
	return false
}

// compareValues implements `=`/`!=` as exact equality after lifting the
// literal into the field value's representation, and the ordering
// operators via a best-effort partial order over numerics and strings.
// Type-incompatible comparisons yield false rather than an error.
func compareValues(fieldVal any, op query.ComparisonOp, lit query.IqlValue) bool {
	switch op {
	case query.OpEq:
		return valuesEqual(fieldVal, lit)
	case query.OpNeq:
		return !valuesEqual(fieldVal, lit)
	default:
		fv, ok1 := asFloat(fieldVal)
		lv, ok2 := asFloat(lit.Raw())
		if ok1 && ok2 {
			return compareOrdered(fv, lv, op)
		}
		fs, ok1 := asString(fieldVal)
		ls, ok2 := asString(lit.Raw())
		if ok1 && ok2 {
			return compareOrdered(strings.Compare(fs, ls), 0, op)
		}
		return false
	}
}

func compareOrdered[T int | float64](a, b T, op query.ComparisonOp) bool {
	switch op {
	case query.OpGt:
		return a > b
	case query.OpLt:
		return a < b
	case query.OpGte:
		return a >= b
	case query.OpLte:
		return a <= b
	default:
		return false
	}
}

// valuesEqual compares a decoded field value (typically a string, bool,
// float64, or nil from JSON, but may be a native Go value when the caller
// supplies typed records directly) against a literal.
func valuesEqual(fieldVal any, lit query.IqlValue) bool {
	if lit.Kind == query.ValueNull {
		return fieldVal == nil
	}
	if fs, ok := asString(fieldVal); ok {
		if ls, ok := asString(lit.Raw()); ok {
			return fs == ls
		}
	}
	if fb, ok := fieldVal.(bool); ok && lit.Kind == query.ValueBoolean {
		return fb == lit.Bool
	}
	if ff, ok := asFloat(fieldVal); ok {
		if lf, ok := asFloat(lit.Raw()); ok {
			return ff == lf
		}
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return "", false
	}
}

// Compare orders two decoded field values under the same partial order
// compareValues uses for the ordering operators: numeric if both convert
// to float64, lexicographic if both are strings, otherwise 0 (incomparable
// values are treated as equal, matching compareValues' numeric/string
// fallback rather than erroring).
func Compare(a, b any) int {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if sa, ok := asString(a); ok {
		if sb, ok := asString(b); ok {
			return strings.Compare(sa, sb)
		}
	}
	return 0
}

// matchesLike treats the literal string as a pattern where `%` is any-run
// and matches the field value rendered as a string, anchored start-to-end.
func matchesLike(fieldVal any, lit query.IqlValue) bool {
	if lit.Kind != query.ValueString {
		return false
	}
	fs, ok := asString(fieldVal)
	if !ok {
		if fieldVal == nil {
			return false
		}
		fs = fmt.Sprint(fieldVal)
	}
	pattern := "^" + regexp.QuoteMeta(lit.Str) + "$"
	pattern = strings.ReplaceAll(pattern, regexp.QuoteMeta("%"), ".*")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(fs)
}
