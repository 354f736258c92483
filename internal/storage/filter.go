package storage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Op is a filter predicate.
type Op int

const (
	// OpEq matches when the column equals the value.
	OpEq Op = iota
	// OpContains matches when the column contains the value, ignoring case.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpContains:
		return "contains"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Filter is one predicate of a Find call. Multiple filters are ANDed.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring filter. The value is matched
// as is: whitespace is not collapsed and LIKE wildcards are literal.
func Contains(column, value string) Filter {
	return Filter{Column: column, Op: OpContains, Value: value}
}

// Validate checks that the filter targets a real column of T.
func Validate[T any](filters []Filter) error {
	for _, f := range filters {
		if !HasColumn[T](f.Column) {
			return fmt.Errorf("filter: unknown column %q", f.Column)
		}
		if f.Op != OpEq && f.Op != OpContains {
			return fmt.Errorf("filter: unsupported op %s", f.Op)
		}
	}
	return nil
}

// MatchAll reports whether rec satisfies every filter. Backends that scan
// records in process share this so finders behave the same everywhere.
func MatchAll[T any](rec *T, filters []Filter) bool {
	v := reflect.ValueOf(rec).Elem()
	for _, f := range filters {
		if !f.match(v) {
			return false
		}
	}
	return true
}

func (f Filter) match(rec reflect.Value) bool {
	fv, ok := ColumnValue(rec, f.Column)
	if !ok {
		return false
	}
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return f.Value == nil
		}
		fv = fv.Elem()
	}

	switch f.Op {
	case OpContains:
		if fv.Kind() != reflect.String {
			return false
		}
		needle := strings.ToLower(fmt.Sprint(f.Value))
		return strings.Contains(strings.ToLower(fv.String()), needle)
	case OpEq:
		return equalValue(fv, f.Value)
	}
	return false
}

func equalValue(fv reflect.Value, want any) bool {
	if want == nil {
		return false
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String() == stringOf(want)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := int64Of(want)
		return ok && fv.Int() == n
	case reflect.Bool:
		b, ok := want.(bool)
		return ok && fv.Bool() == b
	case reflect.Float32, reflect.Float64:
		x, ok := want.(float64)
		return ok && fv.Float() == x
	}
	if t, ok := fv.Interface().(time.Time); ok {
		w, ok := want.(time.Time)
		return ok && t.Equal(w)
	}
	return false
}

func stringOf(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func int64Of(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		return parsed, err == nil
	}
	return 0, false
}
