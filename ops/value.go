package ops

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ErrUnsupportedOperand is returned when an operator is applied to values
// it does not understand (for example multiplying two strings).
var ErrUnsupportedOperand = errors.New("unsupported operand")

// Func is the shape every operator kernel is adapted to. Engines pass the
// current values of a node's parents in parent order.
type Func func(args ...any) (any, error)

func unsupported(op string, args ...any) error {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = fmt.Sprintf("%T", a)
	}
	return fmt.Errorf("%w: %s%v", ErrUnsupportedOperand, op, types)
}

// IsInteger reports whether v holds any Go integer kind.
func IsInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// IsNumeric reports whether v holds an integer or floating point value.
func IsNumeric(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return IsInteger(v)
}

// ToInt converts any integer kind to int. Unsigned values above
// math.MaxInt do not fit and report false; ToFloat still accepts them.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// ToFloat converts any numeric value to float64. Booleans count as 0/1.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	switch n := v.(type) {
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	if i, ok := ToInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// Truthy mirrors the usual truthiness of dynamic values: nil, false, zero
// numbers and empty strings, slices and maps are false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != ""
	}
	if f, ok := ToFloat(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Len returns the length of strings, slices, arrays and maps.
func Len(args ...any) (any, error) {
	v := args[0]
	if s, ok := v.(string); ok {
		return len([]rune(s)), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	}
	return nil, unsupported("len", v)
}

// Str renders any value as a string. nil renders as "None" to keep traces
// readable next to numeric values.
func Str(args ...any) (any, error) {
	if args[0] == nil {
		return "None", nil
	}
	switch v := args[0].(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return fmt.Sprint(args[0]), nil
}

// Int truncates numbers and parses numeric strings.
func Int(args ...any) (any, error) {
	v := args[0]
	if i, ok := ToInt(v); ok {
		return i, nil
	}
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			f, ferr := strconv.ParseFloat(n, 64)
			if ferr != nil {
				return nil, fmt.Errorf("int(%q): %w", n, err)
			}
			return int(f), nil
		}
		return i, nil
	}
	if f, ok := ToFloat(v); ok {
		return int(f), nil
	}
	return nil, unsupported("int", v)
}

// Float converts numbers and numeric strings to float64.
func Float(args ...any) (any, error) {
	v := args[0]
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("float(%q): %w", s, err)
		}
		return f, nil
	}
	if f, ok := ToFloat(v); ok {
		return f, nil
	}
	return nil, unsupported("float", v)
}

// normalize collapses integer kinds to int and float32 to float64.
func normalize(v any) any {
	if i, ok := ToInt(v); ok {
		return i
	}
	if IsInteger(v) {
		f, _ := ToFloat(v)
		return f
	}
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v
}
