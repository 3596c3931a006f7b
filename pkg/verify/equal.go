package verify

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/stretchr/testify/assert"
)

// equalValues compares an expected and an actual scalar value.
//
// Values of convertible types are compared after conversion,
// numbers compare numerically regardless of their Go type,
// and sequences compare element by element in order.
// A string never equals a number, even if Go could convert between the two.
func equalValues(expected, actual any) bool {
	ev, av := indirect(reflect.ValueOf(expected)), indirect(reflect.ValueOf(actual))
	if !ev.IsValid() || !av.IsValid() {
		return !ev.IsValid() && !av.IsValid()
	}
	if (ev.Kind() == reflect.String) != (av.Kind() == reflect.String) {
		return false
	}
	if isNumber(ev) && isNumber(av) {
		return equalNumbers(ev, av)
	}
	if assert.ObjectsAreEqualValues(ev.Interface(), av.Interface()) {
		return true
	}
	if isSequence(ev) && isSequence(av) {
		if ev.Len() != av.Len() {
			return false
		}
		for i := 0; i < ev.Len(); i++ {
			if !equalValues(ev.Index(i).Interface(), av.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return false
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isNumber(rv reflect.Value) bool {
	return rv.CanInt() || rv.CanUint() || rv.CanFloat()
}

// equalNumbers compares two numbers by their exact value,
// so fractions are never truncated and signs are never reinterpreted.
func equalNumbers(a, b reflect.Value) bool {
	switch {
	case a.CanInt() && b.CanInt():
		return a.Int() == b.Int()
	case a.CanUint() && b.CanUint():
		return a.Uint() == b.Uint()
	}
	x, y := exactNumber(a), exactNumber(b)
	return x != nil && y != nil && x.Cmp(y) == 0
}

// exactNumber returns nil for NaN, which equals nothing.
func exactNumber(rv reflect.Value) *big.Float {
	switch {
	case rv.CanInt():
		return new(big.Float).SetInt64(rv.Int())
	case rv.CanUint():
		return new(big.Float).SetUint64(rv.Uint())
	default:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil
		}
		return new(big.Float).SetFloat64(f)
	}
}

func isSequence(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// sequence returns the elements of a slice or array value.
func sequence(field string, v any) ([]any, error) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ErrUnexpectedShape.F("%s: a sequence of identifiers was expected, got %T", field, v)
	}
	vs := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		vs = append(vs, rv.Index(i).Interface())
	}
	return vs, nil
}

// Stringify formats identifiers and attribute values, so an int 7, a float64 7 from a JSON body and the string "7" are all "7".
func Stringify(v any) string {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return ""
	}
	if rv.CanFloat() {
		bitSize := 64
		if rv.Kind() == reflect.Float32 {
			bitSize = 32
		}
		return strconv.FormatFloat(rv.Float(), 'f', -1, bitSize)
	}
	return fmt.Sprint(rv.Interface())
}
