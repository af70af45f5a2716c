package feature

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Error represents a misuse of feature values
type Error string

const (
	// ErrNotComparable is returned when continuous feature values cannot be ordered
	ErrNotComparable = Error("feature values cannot be ordered")
	// ErrNotHashable is returned when discrete feature values cannot be compared for equality
	ErrNotHashable = Error("feature values cannot be compared for equality")
)

func (e Error) Error() string {
	return string(e)
}

/*
Compare takes two values and orders them. It supports any mix of Go integer
and floating point values (compared numerically), strings and time.Time
values. Any other combination returns an ErrNotComparable error.
*/
func Compare(a, b interface{}) (int, error) {
	if af, ok := toFloat64(a); ok {
		if bf, ok := toFloat64(b); ok {
			return compareFloats(af, bf), nil
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrNotComparable, a, b)
}

/*
Hashable returns whether v can be compared for equality and used as a map key
without panicking. Values of comparable types holding interfaces, like
structs with interface fields, are only hashable if the values they hold
are.
*/
func Hashable(v interface{}) bool {
	if v == nil {
		return true
	}
	t := reflect.TypeOf(v)
	if !t.Comparable() {
		return false
	}
	if !holdsInterface(t) {
		return true
	}
	return hashes(v)
}

func holdsInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return holdsInterface(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if holdsInterface(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// hashes reports whether v can be used as a map key, recovering the runtime
// panic raised for unhashable values held in interfaces
func hashes(v interface{}) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[interface{}]struct{}{v: {}}
	return true
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case math.IsNaN(a) && !math.IsNaN(b):
		return -1
	case !math.IsNaN(a) && math.IsNaN(b):
		return 1
	}
	return 0
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

/*
convertTo takes a decoded value and returns it as a V. Numeric values are
converted between numeric kinds as long as no precision is lost.
*/
func convertTo[V any](v interface{}) (interface{}, error) {
	if tv, ok := v.(V); ok {
		return tv, nil
	}
	var zero V
	target := reflect.TypeOf(zero)
	rv := reflect.ValueOf(v)
	if target == nil || !rv.IsValid() {
		return nil, fmt.Errorf("cannot convert %v (%T) to %v", v, v, target)
	}
	if target.Kind() == reflect.String || rv.Kind() == reflect.String {
		return nil, fmt.Errorf("cannot convert %v (%T) to %v", v, v, target)
	}
	if !rv.Type().ConvertibleTo(target) {
		return nil, fmt.Errorf("cannot convert %v (%T) to %v", v, v, target)
	}
	converted := rv.Convert(target)
	if f, ok := toFloat64(v); ok {
		if back, ok := toFloat64(converted.Interface()); ok && back != f {
			return nil, fmt.Errorf("cannot convert %v (%T) to %v without losing precision", v, v, target)
		}
	}
	return converted.Interface(), nil
}
