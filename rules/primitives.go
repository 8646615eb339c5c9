package rules

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
)

type typeCondition[T any] struct{}

// Type holds when the value is a T. For interface types any implementor
// passes.
func Type[T any]() Condition { return typeCondition[T]{} }

func (typeCondition[T]) Check(v any) Result {
	_, ok := v.(T)
	return Passed(ok)
}

func (typeCondition[T]) String() string { return reflect.TypeFor[T]().String() }

type integerCondition struct{}

// Integer holds for every Go integer kind and for non-nil *big.Int values.
func Integer() Condition { return integerCondition{} }

func (integerCondition) Check(v any) Result {
	if b, ok := v.(*big.Int); ok {
		return Passed(b != nil)
	}
	if v == nil {
		return Passed(false)
	}
	return Passed(isIntLike(reflect.TypeOf(v).Kind()))
}

func (integerCondition) String() string { return "INTEGER" }

type patternCondition struct{ re *regexp.Regexp }

// Pattern holds for string-like values matching re.
func Pattern(re *regexp.Regexp) Condition { return patternCondition{re: re} }

// Match compiles expr and returns Pattern. It panics on an invalid expression,
// like regexp.MustCompile.
func Match(expr string) Condition { return Pattern(regexp.MustCompile(expr)) }

func (c patternCondition) Check(v any) Result {
	s, ok := StringOf(v)
	if !ok {
		return Passed(false)
	}
	return Passed(c.re.MatchString(s))
}

func (c patternCondition) String() string { return "/" + c.re.String() + "/" }

type memberOfCondition struct{ values []any }

// MemberOf holds when the value equals one of values.
func MemberOf(values ...any) Condition { return memberOfCondition{values: values} }

func (c memberOfCondition) Check(v any) Result {
	for _, it := range c.values {
		if Equivalent(it, v) {
			return Passed(true)
		}
	}
	return Passed(false)
}

func (c memberOfCondition) String() string {
	parts := make([]string, len(c.values))
	for i, it := range c.values {
		parts[i] = fmt.Sprintf("%#v", it)
	}
	return "MEMBER_OF(" + strings.Join(parts, ", ") + ")"
}

type equalCondition struct{ want any }

// Equal holds when the value equals want. Equal(nil) matches a nil value.
func Equal(want any) Condition { return equalCondition{want: want} }

func (c equalCondition) Check(v any) Result { return Passed(Equivalent(c.want, v)) }

func (c equalCondition) String() string { return fmt.Sprintf("%#v", c.want) }

// Number is the set of numeric types accepted as Between bounds.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type betweenCondition struct {
	lo, hi   any
	loN, hiN *big.Float
	valid    bool
}

// Between holds for numeric values v with lo <= v <= hi, whatever their
// numeric kind. Comparison is exact, so large integers are not rounded
// through float64.
func Between[N Number](lo, hi N) Condition {
	loN, ok1 := exactNumber(lo)
	hiN, ok2 := exactNumber(hi)
	return betweenCondition{lo: lo, hi: hi, loN: loN, hiN: hiN, valid: ok1 && ok2}
}

func (c betweenCondition) Check(v any) Result {
	if !c.valid {
		return Passed(false)
	}
	n, ok := exactNumber(v)
	if !ok {
		return Passed(false)
	}
	return Passed(c.loN.Cmp(n) <= 0 && n.Cmp(c.hiN) <= 0)
}

func (c betweenCondition) String() string { return fmt.Sprintf("%v..%v", c.lo, c.hi) }

type canCondition struct{ methods []string }

// Can holds when the value's method set contains every named method.
func Can(methods ...string) Condition { return canCondition{methods: methods} }

func (c canCondition) Check(v any) Result {
	if v == nil {
		return Passed(false)
	}
	rv := reflect.ValueOf(v)
	for _, m := range c.methods {
		if !rv.MethodByName(m).IsValid() {
			return Passed(false)
		}
	}
	return Passed(true)
}

func (c canCondition) String() string { return "CAN(" + strings.Join(c.methods, ", ") + ")" }

type eachCondition struct{ elem Condition }

// Each holds when every element of a slice or array, or every value of a
// map, satisfies elem. Empty collections pass; non-collections fail.
func Each(elem Condition) Condition { return eachCondition{elem: elem} }

func (c eachCondition) Check(v any) Result {
	if v == nil {
		return Passed(false)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if r := c.elem.Check(rv.Index(i).Interface()); r.Outcome != Pass {
				return r
			}
		}
		return Passed(true)
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if r := c.elem.Check(iter.Value().Interface()); r.Outcome != Pass {
				return r
			}
		}
		return Passed(true)
	default:
		return Passed(false)
	}
}

func (c eachCondition) String() string { return "EACH(" + Describe(c.elem) + ")" }

type boolCondition struct{}

// Bool holds for true and false.
func Bool() Condition { return boolCondition{} }

func (boolCondition) Check(v any) Result {
	_, ok := v.(bool)
	return Passed(ok)
}

func (boolCondition) String() string { return "BOOL" }

type stringableCondition struct{}

// Stringable holds for values StringOf can render.
func Stringable() Condition { return stringableCondition{} }

func (stringableCondition) Check(v any) Result {
	_, ok := StringOf(v)
	return Passed(ok)
}

func (stringableCondition) String() string { return "STRINGABLE" }

type anythingCondition struct{}

// Anything always holds.
func Anything() Condition { return anythingCondition{} }

func (anythingCondition) Check(any) Result { return Result{Outcome: Pass} }

func (anythingCondition) String() string { return "ANYTHING" }

type funcCondition struct {
	fn func(any) (bool, error)
}

// Func wraps a plain predicate.
func Func(fn func(any) bool) Condition {
	return funcCondition{fn: func(v any) (bool, error) { return fn(v), nil }}
}

// Try wraps a predicate that may fail. Its errors are reported as Errored.
func Try(fn func(any) (bool, error)) Condition { return funcCondition{fn: fn} }

func (c funcCondition) Check(v any) Result {
	ok, err := c.fn(v)
	if err != nil {
		return Failed(err)
	}
	return Passed(ok)
}

func (funcCondition) String() string { return "FUNC" }

// StringOf returns the string form of string kinds, byte slices and
// fmt.Stringer implementations.
func StringOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	case nil:
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
