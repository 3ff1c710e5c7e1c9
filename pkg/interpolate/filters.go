package interpolate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultFilters returns the built-in filters. Each call returns a new map.
func DefaultFilters() map[string]Filter {
	return map[string]Filter{
		"upper":    upper,
		"lower":    lower,
		"trim":     trim,
		"default":  defaultValue,
		"join":     join,
		"json":     toJSON,
		"truncate": truncate,
		"fixed":    fixed,
	}
}

func upper(v any, _ ...string) (any, error) {
	return strings.ToUpper(Stringify(v)), nil
}

func lower(v any, _ ...string) (any, error) {
	return strings.ToLower(Stringify(v)), nil
}

func trim(v any, _ ...string) (any, error) {
	return strings.TrimSpace(Stringify(v)), nil
}

// defaultValue substitutes args[0] for nil or empty values.
func defaultValue(v any, args ...string) (any, error) {
	if Truthy(v) {
		return v, nil
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], nil
}

// join concatenates a slice with args[0] (default ", ").
func join(v any, args ...string) (any, error) {
	sep := ", "
	if len(args) > 0 {
		sep = args[0]
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Stringify(v), nil
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = Stringify(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}

func toJSON(v any, _ ...string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// truncate shortens text to args[0] runes, appending "…" when cut.
func truncate(v any, args ...string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("truncate needs a length")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("truncate length %q: %w", args[0], err)
	}
	s := Stringify(v)
	if utf8.RuneCountInString(s) <= n {
		return s, nil
	}
	return string([]rune(s)[:n]) + "…", nil
}

// fixed formats a number with args[0] decimals (default 2).
func fixed(v any, args ...string) (any, error) {
	digits := 2
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("fixed digits %q: %w", args[0], err)
		}
		digits = d
	}
	f, ok := Number(v)
	if !ok {
		return nil, fmt.Errorf("fixed: %T is not a number", v)
	}
	return strconv.FormatFloat(f, 'f', digits, 64), nil
}

// Number converts numeric values and numeric strings to float64.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case nil, bool:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Truthy reports whether v counts as set: nil, false, zero numbers, empty
// strings and empty collections are falsy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := Number(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
