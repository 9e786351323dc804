package datatable

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Row is a record displayed by a table. RowID is used as the row key and is
// matched by the global filter's id override.
type Row interface {
	RowID() string
}

// Displayer is implemented by nested values that know their own display text,
// e.g. a role object rendered by its name.
type Displayer interface {
	DisplayString() string
}

// Display coerces a cell value into the text shown and searched.
// nil values and nil pointers render as the empty string.
func Display(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case Displayer:
		if isNilPointer(v) {
			return ""
		}
		return val.DisplayString()
	case fmt.Stringer:
		if isNilPointer(v) {
			return ""
		}
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []string:
		return strings.Join(val, ", ")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return Display(rv.Elem().Interface())
	case reflect.Struct:
		// Nested objects display through their name-like field.
		for _, name := range []string{"Name", "Title", "Label"} {
			if f := rv.FieldByName(name); f.IsValid() && f.CanInterface() {
				return Display(f.Interface())
			}
		}
	}
	return fmt.Sprint(v)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Path returns an accessor that resolves a dot-separated field path such as
// "role.name" on a row. Struct fields match by json tag or case-insensitive
// name; map keys match exactly. A path that does not resolve yields nil, which
// renders as an empty cell.
func Path[R any](path string) func(R) any {
	parts := strings.Split(path, ".")
	return func(r R) any {
		v, ok := resolvePath(reflect.ValueOf(r), parts)
		if !ok {
			return nil
		}
		return v
	}
}

// ResolvePath resolves a dot-separated path against v and reports whether
// every segment was present.
func ResolvePath(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	return resolvePath(reflect.ValueOf(v), strings.Split(path, "."))
}

func resolvePath(rv reflect.Value, parts []string) (any, bool) {
	for _, part := range parts {
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nil, false
			}
			rv = rv.Elem()
		}

		switch rv.Kind() {
		case reflect.Struct:
			f, ok := structField(rv, part)
			if !ok {
				return nil, false
			}
			rv = f
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			rv = mv
		default:
			return nil, false
		}
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || !rv.CanInterface() {
		return nil, false
	}
	return rv.Interface(), true
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if tag == name || strings.EqualFold(sf.Name, name) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}
