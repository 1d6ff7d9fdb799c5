package mockdb

import (
	"cmp"
	"slices"
)

// FilterEquals keeps the rows whose column is present and strictly equal
// to value. No type coercion happens: "1" never equals 1.
func FilterEquals(rows []Record, column string, value any) []Record {
	value = Normalize(value)
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		if matches(row, column, value) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row Record, column string, value any) bool {
	v, ok := row[column]
	return ok && valuesEqual(v, value)
}

// OrderBy returns a new slice sorted by column. The sort is stable, and
// rows whose values cannot be compared (missing, null or of different
// kinds) keep their relative order.
func OrderBy(rows []Record, column string, ascending bool) []Record {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Record) int {
		c := compareValues(a[column], b[column])
		if !ascending {
			c = -c
		}
		return c
	})
	return out
}

// compareValues orders numbers numerically, strings lexically and
// booleans false before true. Anything else compares equal.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case float64:
			return cmp.Compare(float64(x), y)
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, float64(y))
		case float64:
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return 0
}

// Range returns rows[from..to], both ends inclusive and clamped to the
// slice bounds.
func Range(rows []Record, from, to int) []Record {
	if from < 0 {
		from = 0
	}
	end := len(rows)
	if to < end-1 {
		end = to + 1
	}
	if from >= end {
		return []Record{}
	}
	return slices.Clone(rows[from:end])
}
