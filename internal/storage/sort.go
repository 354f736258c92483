package storage

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// SortColumn returns the listing order declared by T, or "" for id order.
func SortColumn[T any]() string {
	var zero T
	if s, ok := any(&zero).(domain.Sorter); ok {
		return s.SortColumn()
	}
	return ""
}

// ParseSort splits a sort column such as "-received_at" into the column
// and a descending flag.
func ParseSort(order string) (column string, desc bool) {
	if strings.HasPrefix(order, "-") {
		return order[1:], true
	}
	return order, false
}

// SortRecords orders recs by T's sort column, breaking ties by id. Input is
// expected in id order; without a sort column it is left untouched.
func SortRecords[T any](recs []T) {
	order := SortColumn[T]()
	if order == "" || len(recs) < 2 {
		return
	}
	column, desc := ParseSort(order)

	sort.SliceStable(recs, func(i, j int) bool {
		a, okA := ColumnValue(reflect.ValueOf(&recs[i]).Elem(), column)
		b, okB := ColumnValue(reflect.ValueOf(&recs[j]).Elem(), column)
		if !okA || !okB {
			return false
		}
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders two column values. Nil pointers sort last.
func compareValues(a, b reflect.Value) int {
	if a.Kind() == reflect.Pointer {
		switch {
		case a.IsNil() && b.IsNil():
			return 0
		case a.IsNil():
			return 1
		case b.IsNil():
			return -1
		}
		a, b = a.Elem(), b.Elem()
	}

	if ta, ok := a.Interface().(time.Time); ok {
		return ta.Compare(b.Interface().(time.Time))
	}

	switch a.Kind() {
	case reflect.String:
		return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmpOrdered(a.Int(), b.Int())
	case reflect.Float32, reflect.Float64:
		return cmpOrdered(a.Float(), b.Float())
	}
	return 0
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
