package mockdb

import (
	"math"
	"reflect"
	"time"

	"github.com/mohae/deepcopy"
)

// TimestampLayout is the ISO-8601 layout used for every stored timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Record is a single row: a mapping from field name to value.
type Record map[string]any

// Timestamp formats t the way the store keeps dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Copy returns a structurally identical value that shares no mutable state
// with v.
func Copy[T any](v T) T {
	c := deepcopy.Copy(v)
	if c == nil {
		var zero T
		return zero
	}
	return c.(T)
}

// CopyAll copies every record of rows into a new slice.
func CopyAll(rows []Record) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = Copy(row)
	}
	return out
}

// Normalize canonicalises a value so strict equality behaves the same
// regardless of which Go numeric type a caller used.
//
// Integers of every width and integral floats become int64, other floats
// become float64, time.Time becomes its ISO-8601 string, pointers are
// dereferenced and nested maps and slices are normalised element-wise.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool, int64:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normalizeUint(x)
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case time.Time:
		return Timestamp(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return Timestamp(*x)
	case Record:
		return NormalizeRecord(x)
	case map[string]any:
		return map[string]any(NormalizeRecord(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return normalizeUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

// NormalizeRecord returns a normalised copy of r.
func NormalizeRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = Normalize(v)
	}
	return out
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
		return int64(f)
	}
	return f
}

// valuesEqual is strict equality over normalised values. Maps and slices
// are never equal to anything, including themselves.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Slice:
		return false
	}
	return a == b
}
