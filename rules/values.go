package rules

import (
	"math"
	"math/big"
	"reflect"
)

// Equivalent compares two values the way members compare them. *big.Int
// compares by value. []any and map[string]any compare element-wise. A value
// whose type declares `Equal(T) bool` (time.Time, *structus.Instance, ...)
// decides for itself; everything else falls back to reflect.DeepEqual.
func Equivalent(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *big.Int:
		y, ok := b.(*big.Int)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	case []any:
		y, ok := b.([]any)
		if !ok || (x == nil) != (y == nil) || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equivalent(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || (x == nil) != (y == nil) || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equivalent(xv, yv) {
				return false
			}
		}
		return true
	}
	if eq, ok := equalMethod(a, b); ok {
		return eq
	}
	return reflect.DeepEqual(a, b)
}

func equalMethod(a, b any) (bool, bool) {
	m := reflect.ValueOf(a).MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}
	bv := reflect.ValueOf(b)
	if !bv.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{bv})[0].Bool(), true
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// exactNumber converts any numeric value (including *big.Int) to a
// big.Float without rounding. NaN is not a number here.
func exactNumber(v any) (*big.Float, bool) {
	if b, ok := v.(*big.Int); ok {
		if b == nil {
			return nil, false
		}
		return new(big.Float).SetInt(b), true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case k >= reflect.Int && k <= reflect.Int64:
		return new(big.Float).SetInt64(rv.Int()), true
	case isIntLike(k):
		return new(big.Float).SetUint64(rv.Uint()), true
	case isFloatLike(k):
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return new(big.Float).SetFloat64(f), true
	default:
		return nil, false
	}
}
