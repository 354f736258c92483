package storage

import (
	"reflect"
	"sync"
)

// Field maps a db column to its position inside an entity struct.
type Field struct {
	Column string
	Index  []int
	Type   reflect.Type
}

var fieldCache sync.Map // map[reflect.Type][]Field

// FieldsOf returns the db-tagged fields of struct type t in declaration
// order. Untagged embedded structs are flattened, which is how domain.Base
// contributes id, created_at and updated_at.
func FieldsOf(t reflect.Type) []Field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}
	fields := collectFields(t, nil)
	fieldCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, prefix []int) []Field {
	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		tag := sf.Tag.Get("db")
		if tag == "-" {
			continue
		}
		if sf.Anonymous && tag == "" && sf.Type.Kind() == reflect.Struct {
			out = append(out, collectFields(sf.Type, index)...)
			continue
		}
		if tag == "" || !sf.IsExported() {
			continue
		}
		out = append(out, Field{Column: tag, Index: index, Type: sf.Type})
	}
	return out
}

// Columns returns the db column names of T.
func Columns[T any]() []string {
	var zero T
	fields := FieldsOf(reflect.TypeOf(zero))
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return cols
}

// HasColumn reports whether T has a db column with the given name.
func HasColumn[T any](column string) bool {
	_, ok := lookupField(reflectType[T](), column)
	return ok
}

// IsTextColumn reports whether T's column holds a string.
func IsTextColumn[T any](column string) bool {
	f, ok := lookupField(reflectType[T](), column)
	return ok && f.Type.Kind() == reflect.String
}

// ColumnValue returns the value stored in rec for column.
func ColumnValue(rec reflect.Value, column string) (reflect.Value, bool) {
	f, ok := lookupField(rec.Type(), column)
	if !ok {
		return reflect.Value{}, false
	}
	return rec.FieldByIndex(f.Index), true
}

// Values returns the column values of rec keyed by column name.
func Values[T any](rec *T) map[string]any {
	v := reflect.ValueOf(rec).Elem()
	fields := FieldsOf(v.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Column] = v.FieldByIndex(f.Index).Interface()
	}
	return out
}

func lookupField(t reflect.Type, column string) (Field, bool) {
	for _, f := range FieldsOf(t) {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

func reflectType[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}
