package adjust

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/reoring/structus/rules"
)

// ErrNotString is returned by parse adjusters given a value that is not
// string-like.
var ErrNotString = errors.New("adjust: value is not a string")

type parseAdjuster[T any] struct {
	factory func(string) (T, error)
}

// Parse builds an adjuster from a construct-from-string factory. Values that
// are already a T pass through; string-like values are handed to factory.
func Parse[T any](factory func(string) (T, error)) Adjuster {
	return parseAdjuster[T]{factory: factory}
}

func (a parseAdjuster[T]) Adjust(v any) (any, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	s, ok := rules.StringOf(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotString, v)
	}
	return a.factory(s)
}

func (parseAdjuster[T]) String() string { return "PARSE(" + reflect.TypeFor[T]().String() + ")" }

// Int parses base-10 integers into int.
func Int() Adjuster { return Parse(strconv.Atoi) }

// Float parses floating point numbers into float64.
func Float() Adjuster {
	return Parse(func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// Bool parses the forms accepted by strconv.ParseBool.
func Bool() Adjuster { return Parse(strconv.ParseBool) }

// BigInt parses arbitrarily large base-10 integers.
func BigInt() Adjuster {
	return Parse(func(s string) (*big.Int, error) {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("adjust: invalid integer %q", s)
		}
		return n, nil
	})
}

// Time parses RFC3339 timestamps (fractional seconds optional).
func Time() Adjuster { return Parse(parseRFC3339) }

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// String renders any value with fmt.Sprint.
func String() Adjuster {
	return Named("STRING", func(v any) (any, error) {
		if s, ok := rules.StringOf(v); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	})
}

// Trim removes leading and trailing white space from string-like values.
func Trim() Adjuster { return stringFunc("TRIM", strings.TrimSpace) }

// Chomp removes one trailing line break from string-like values.
func Chomp() Adjuster {
	return stringFunc("CHOMP", func(s string) string {
		s = strings.TrimSuffix(s, "\n")
		return strings.TrimSuffix(s, "\r")
	})
}

// Lower lower-cases string-like values.
func Lower() Adjuster { return stringFunc("LOWER", strings.ToLower) }

// Upper upper-cases string-like values.
func Upper() Adjuster { return stringFunc("UPPER", strings.ToUpper) }

func stringFunc(name string, fn func(string) string) Adjuster {
	return Named(name, func(v any) (any, error) {
		s, ok := rules.StringOf(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotString, v)
		}
		return fn(s), nil
	})
}
